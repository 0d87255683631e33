// Package shell implements an interactive prompt for dispatching queries
// through the central routine.
package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	dynsql "github.com/dynsql/go-dynsql"
)

// Shell can be used to implement interactive prompts for running registered
// queries against a database.
type Shell struct {
	executor *dynsql.Executor
	format   string
}

// New creates a new Shell dispatching through the given executor.
func New(executor *dynsql.Executor, options ...Option) *Shell {
	o := defaultOptions()

	for _, option := range options {
		option(o)
	}

	return &Shell{
		executor: executor,
		format:   o.Format,
	}
}

// Process a single input line. The expected form is:
//
//	[exec] QUERY_NAME [@catalog] [param=value ...]
//
// Parameter values are parsed as JSON when possible and kept as plain
// strings otherwise. The "exec" prefix discards any result.
func (s *Shell) Process(ctx context.Context, line string) (string, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", nil
	}

	void := false
	if tokens[0] == "exec" {
		void = true
		tokens = tokens[1:]
		if len(tokens) == 0 {
			return "", fmt.Errorf("missing query name")
		}
	}

	builder := s.executor.Query(tokens[0])

	for _, token := range tokens[1:] {
		if strings.HasPrefix(token, "@") {
			builder.Catalog(strings.TrimPrefix(token, "@"))
			continue
		}

		name, value, ok := strings.Cut(token, "=")
		if !ok || name == "" {
			return "", fmt.Errorf("expected param=value, got %q", token)
		}
		builder.Param(name, parseValue(value))
	}

	if void {
		return "", builder.Execute(ctx)
	}

	rows := []map[string]interface{}{}
	if err := builder.ExecuteList(ctx, &rows); err != nil {
		return "", err
	}

	return s.formatRows(rows)
}

// parseValue interprets a parameter value: valid JSON scalars and documents
// keep their JSON type, anything else is a string. An empty value means the
// null value.
func parseValue(value string) interface{} {
	if value == "" {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return value
	}
	return parsed
}

func (s *Shell) formatRows(rows []map[string]interface{}) (string, error) {
	if s.format == formatJson {
		data, err := json.Marshal(rows)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	result := ""
	for n, row := range rows {
		columns := make([]string, 0, len(row))
		for column := range row {
			columns = append(columns, column)
		}
		sort.Strings(columns)

		line := ""
		for i, column := range columns {
			value := fmt.Sprintf("%v", row[column])
			if i == 0 {
				line = value
			} else {
				line += "|" + value
			}
		}
		if n > 0 {
			result += "\n"
		}
		result += line
	}

	return result, nil
}
