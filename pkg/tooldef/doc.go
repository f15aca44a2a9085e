// SPDX-License-Identifier: MPL-2.0

// Package tooldef loads tool description files: CUE documents that pair a
// command template with default bindings and per-variable documentation.
//
//	name:    "bwa_mem"
//	command: """
//		bwa mem
//		#if $threads
//		  -t $threads
//		#end
//		$reference $reads
//		"""
//	defaults: threads: "4"
//	variables: [{name: "reads", required: true}]
package tooldef
