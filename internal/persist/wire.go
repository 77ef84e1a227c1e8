// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package persist

// SaveRequest is the body of a save call: document keys mapped to their
// new content, or null for a deletion, in the order they are applied.
type SaveRequest struct {
	Files *Batch `json:"files"`
}

// SaveResponse is returned when every document of a batch was applied.
type SaveResponse struct {
	OK      bool     `json:"ok"`
	Results []Result `json:"results"`
}

// ErrorResponse is returned when a save fails. File names the document
// the batch stopped at, when there is one.
type ErrorResponse struct {
	Error string `json:"error"`
	File  string `json:"file,omitempty"`
}
