package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// decodeInput treats data as JSON when it is a JSON object or array, and as
// text otherwise. raw forces text.
func decodeInput(data []byte, raw bool) any {
	trimmed := bytes.TrimSpace(data)
	if !raw && len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			return v
		}
	}
	return string(trimmed)
}

// readInput returns the input from a file, the arguments, or stdin, in that order.
func readInput(stdin io.Reader, args []string, file string, raw bool) (any, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return decodeInput(data, raw), nil
	case len(args) > 0:
		return decodeInput([]byte(strings.Join(args, " ")), raw), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return decodeInput(data, raw), nil
	}
}

// readBatch splits a batch file into inputs. A JSON array yields one input per
// element; otherwise every non-empty line is one input, decoded like a
// single input.
func readBatch(data []byte, raw bool) ([]any, error) {
	trimmed := bytes.TrimSpace(data)
	if !raw && len(trimmed) > 0 && trimmed[0] == '[' {
		var items []any
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return items, nil
		}
	}

	var inputs []any
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		inputs = append(inputs, decodeInput([]byte(line), raw))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return inputs, nil
}
