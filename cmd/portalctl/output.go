package main

import (
	"io"

	"github.com/goccy/go-json"
)

type commandOutput struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"durationMs"`
	Result     any    `json:"result"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
