// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import "slices"

type (
	// sourceLine is one non-blank template line after classification and expression building.
	sourceLine struct {
		number int
		text   string
		class  Classification
		expr   Expression
		cond   Condition
	}

	// branch is one condition/body pair of an open #if/#elif chain.
	branch struct {
		cond Condition
		body []Statement
	}

	// frame is an #if block that has not seen its #end yet.
	frame struct {
		open     sourceLine
		branches []branch
		elseBody []Statement
		inElse   bool
	}

	// assembler folds classified lines into the statement IR using a stack of open frames.
	assembler struct {
		top   []Statement
		stack []*frame
	}
)

// add folds one line into the IR.
func (a *assembler) add(l sourceLine) error {
	switch l.class.Kind {
	case KindText:
		a.emit(AppendStmt{Expr: l.expr})
	case KindIf:
		a.stack = append(a.stack, &frame{open: l, branches: []branch{{cond: l.cond}}})
	case KindElif:
		f, err := a.current(l)
		if err != nil {
			return err
		}
		if f.inElse {
			return structuralError(l, "#elif after #else")
		}
		f.branches = append(f.branches, branch{cond: l.cond})
	case KindElse:
		f, err := a.current(l)
		if err != nil {
			return err
		}
		if f.inElse {
			return structuralError(l, "duplicate #else")
		}
		f.inElse = true
	case KindEnd:
		f, err := a.current(l)
		if err != nil {
			return err
		}
		a.stack = a.stack[:len(a.stack)-1]
		a.emit(f.close())
	}
	return nil
}

// finish returns the top-level statements, failing if any #if is still open.
func (a *assembler) finish() ([]Statement, error) {
	if len(a.stack) > 0 {
		f := a.stack[len(a.stack)-1]
		return nil, structuralError(f.open, "#if is never closed with #end")
	}
	return a.top, nil
}

func (a *assembler) current(l sourceLine) (*frame, error) {
	if len(a.stack) == 0 {
		return nil, structuralError(l, "no matching #if")
	}
	return a.stack[len(a.stack)-1], nil
}

// emit appends st to the body currently being filled.
func (a *assembler) emit(st Statement) {
	if len(a.stack) == 0 {
		a.top = append(a.top, st)
		return
	}
	f := a.stack[len(a.stack)-1]
	if f.inElse {
		f.elseBody = append(f.elseBody, st)
		return
	}
	last := &f.branches[len(f.branches)-1]
	last.body = append(last.body, st)
}

// close turns the frame into an IfStmt, nesting #elif branches into Else.
func (f *frame) close() IfStmt {
	otherwise := f.elseBody
	for _, b := range slices.Backward(f.branches[1:]) {
		otherwise = []Statement{IfStmt{Cond: b.cond, Then: b.body, Else: otherwise}}
	}
	return IfStmt{Cond: f.branches[0].cond, Then: f.branches[0].body, Else: otherwise}
}

func structuralError(l sourceLine, reason string) error {
	return &StructuralError{LineNumber: l.number, Line: l.text, Reason: reason}
}
