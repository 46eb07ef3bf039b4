// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	validStyle   = termenv.Style{}.Foreground(termenv.ANSIGreen)
	invalidStyle = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var headingStyle = termenv.Style{}.Bold()
