// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	TemplateStructureId
	MalformedConditionId
	EmptyTemplateId
	MissingBindingsId
	UnknownVariableId
	ToolFileParseErrorId
	BindingsParseErrorId
	ConfigLoadFailedId
	ShellSyntaxErrorId
	ScriptExecutionFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project docs about the issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

One of the files passed on the command line does not exist or cannot be read.

## Things you can try:
- Check the path given to ` + "`--tool`" + `, ` + "`--template`" + ` or ` + "`--vars-file`" + `
- Paths are resolved relative to the current working directory`,
	}

	templateStructureIssue = &Issue{
		id: TemplateStructureId,
		mdMsg: `
# Unbalanced template directives!

Every ` + "`#if`" + ` block must be closed by exactly one ` + "`#end`" + `, and
` + "`#elif`" + ` / ` + "`#else`" + ` may only appear inside an open block.

## Things you can try:
- Count the ` + "`#if`" + ` and ` + "`#end`" + ` lines of the template
- Make sure ` + "`#else`" + ` is the last branch of its block
- Remove trailing characters after a keyword: write ` + "`#else`" + `, not ` + "`#else:`" + `
- Use ` + "`cmdresolve check`" + ` to see the offending line

## Example:
~~~
bwa mem
#if $paired
  $reads1 $reads2
#else
  $reads
#end
~~~`,
	}

	malformedConditionIssue = &Issue{
		id: MalformedConditionId,
		mdMsg: `
# Malformed condition!

The text after ` + "`#if`" + ` or ` + "`#elif`" + ` could not be parsed.

## Supported syntax:
- Variables: ` + "`$name`" + ` or ` + "`${name}`" + `
- Literals: quoted strings, numbers, ` + "`True`" + `, ` + "`False`" + `, ` + "`None`" + `
- Comparisons: ` + "`==  !=  <  <=  >  >=`" + `
- Boolean operators: ` + "`and  or  not`" + ` with parentheses for grouping

## Things you can try:
- Prefix every variable with ` + "`$`" + `
- Drop trailing colons: write ` + "`#if $a`" + `, not ` + "`#if $a:`" + `
- Close every quote and parenthesis
- Split chained comparisons (` + "`$a < $b < $c`" + `) with ` + "`and`",
	}

	emptyTemplateIssue = &Issue{
		id: EmptyTemplateId,
		mdMsg: `
# Empty template!

The template contains no command text, only blank lines, comments or directives.

## Things you can try:
- Check that the ` + "`command`" + ` field of your tool file is not empty
- Make sure the template file is the one you meant to pass`,
	}

	missingBindingsIssue = &Issue{
		id: MissingBindingsId,
		mdMsg: `
# No variable bindings!

Resolving a template needs at least one variable binding.

## Things you can try:
- Pass bindings on the command line:
~~~
$ cmdresolve resolve --tool bwa.cue --var reads=sample.fq
~~~
- Or load them from a file:
~~~
$ cmdresolve resolve --tool bwa.cue --vars-file params.toml
~~~`,
	}

	unknownVariableIssue = &Issue{
		id: UnknownVariableId,
		mdMsg: `
# Unbound variables!

Strict mode is on and the template references variables that were not supplied.

## Things you can try:
- List what the template needs with ` + "`cmdresolve vars`" + `
- Supply the missing names with ` + "`--var`" + ` or a vars file
- Add defaults to the ` + "`defaults`" + ` field of the tool file
- Turn strict mode off with ` + "`strict_variables: false`" + ` in your config`,
	}

	toolFileParseErrorIssue = &Issue{
		id: ToolFileParseErrorId,
		mdMsg: `
# Failed to parse tool file!

The tool description could not be parsed or did not match the schema.

## Things you can try:
- Check the CUE syntax of the file
- Make sure ` + "`name`" + ` and ` + "`command`" + ` are set
- Keep ` + "`defaults`" + ` values as strings

## Example tool file:
~~~cue
name:    "bwa_mem"
command: """
	bwa mem
	#if $threads
	  -t $threads
	#end
	$reference $reads
	"""
defaults: threads: "4"
~~~`,
	}

	bindingsParseErrorIssue = &Issue{
		id: BindingsParseErrorId,
		mdMsg: `
# Failed to load variable bindings!

The bindings file or a ` + "`--var`" + ` flag could not be parsed.

## Supported formats:
- ` + "`.toml`" + ` with flat string, number or boolean values
- ` + "`.env`" + ` with ` + "`KEY=value`" + ` lines
- ` + "`.cue`" + ` with a flat struct of scalar fields
- ` + "`--var name=value`" + ` flags`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or is invalid.

## Things you can try:
- Show the effective configuration:
~~~
$ cmdresolve config show
~~~
- Write a fresh default file:
~~~
$ cmdresolve config init
~~~
- Check the file location with ` + "`cmdresolve config path`",
	}

	shellSyntaxErrorIssue = &Issue{
		id: ShellSyntaxErrorId,
		mdMsg: `
# Resolved command is not valid shell!

The template resolved, but the result failed to parse as a shell command.

## Things you can try:
- Check quoting of values that contain spaces or special characters
- Pick a different dialect with ` + "`shell.dialect`" + ` in your config
- Disable the check with ` + "`shell.validate: false`",
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Command execution failed!

The resolved command ran in the virtual shell and did not exit cleanly.

## Things you can try:
- Print the command with ` + "`cmdresolve resolve`" + ` and run it by hand
- Run with ` + "`--verbose`" + ` for more details`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():          fileNotFoundIssue,
		templateStructureIssue.Id():     templateStructureIssue,
		malformedConditionIssue.Id():    malformedConditionIssue,
		emptyTemplateIssue.Id():         emptyTemplateIssue,
		missingBindingsIssue.Id():       missingBindingsIssue,
		unknownVariableIssue.Id():       unknownVariableIssue,
		toolFileParseErrorIssue.Id():    toolFileParseErrorIssue,
		bindingsParseErrorIssue.Id():    bindingsParseErrorIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		shellSyntaxErrorIssue.Id():      shellSyntaxErrorIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
