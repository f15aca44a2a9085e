// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fixture helpers that fail the test on setup errors.
package testutil
