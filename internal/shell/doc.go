// SPDX-License-Identifier: MPL-2.0

// Package shell checks and runs resolved command lines with the embedded
// mvdan/sh parser and interpreter. Nothing here spawns a system shell; external
// programs named by the command are still executed through the interpreter's
// exec handler.
package shell
