package status

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Validator checks the fields of a record that already has the expected
// number of lines.
type Validator func(fields []string) error

// Record is the result of a read.
type Record struct {
	// Fields are the record lines without line terminators.
	Fields []string
	// Healed is set when the file was rewritten with the default record.
	Healed bool
}

// ErrNoFields is returned when a record with no fields is written.
var ErrNoFields = errors.New("record has no fields")

// Channel is a self-healing record file.
type Channel struct {
	// path is the filesystem location of the record.
	path string
	// defaults is the record a bad file heals to.
	defaults []string
	// validate checks field contents; nil accepts anything.
	validate Validator
}

// NewChannel creates a channel at path whose records have len(defaults) fields.
func NewChannel(path string, defaults []string, validate Validator) *Channel {
	return &Channel{
		path:     filepath.Clean(path),
		defaults: append([]string(nil), defaults...),
		validate: validate,
	}
}

// Path returns the record location.
func (c *Channel) Path() string {
	return c.path
}

// FieldCount returns the number of lines in a record.
func (c *Channel) FieldCount() int {
	return len(c.defaults)
}

// Write replaces the file with fields, one per line. The new content is
// written to a sibling temporary file and renamed over the record.
func (c *Channel) Write(_ context.Context, fields []string) error {
	if len(fields) == 0 {
		return ErrNoFields
	}

	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(f)
		sb.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary status file: %w", err)
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write status file: %w", err)
	}

	if err = tmp.Chmod(config.DefaultFilePermissions); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("chmod status file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close status file: %w", err)
	}

	if err = os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace status file: %w", err)
	}

	return nil
}

// Read returns the current record. A file that cannot be used is replaced
// with the default record, which is returned with Healed set. The only error
// is a failure to write the default.
func (c *Channel) Read(ctx context.Context) (Record, error) {
	fields, problem := c.load()
	if problem == nil {
		return Record{Fields: fields}, nil
	}

	logger.WarnKV(ctx, "Status record unusable, writing default",
		"path", c.path,
		"reason", problem.Error(),
		"default", strings.Join(c.defaults, "|"),
	)

	if err := c.Reset(ctx); err != nil {
		return Record{}, err
	}

	return Record{Fields: append([]string(nil), c.defaults...), Healed: true}, nil
}

// Reset writes the default record.
func (c *Channel) Reset(ctx context.Context) error {
	if err := c.Write(ctx, c.defaults); err != nil {
		return fmt.Errorf("write default record: %w", err)
	}

	return nil
}

// load reads and checks the file without touching it.
func (c *Channel) load() ([]string, error) {
	contents, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSuffix(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	if text == "" {
		return nil, fmt.Errorf("empty file: %w", errBadShape)
	}

	lines := strings.Split(text, "\n")
	if len(lines) != len(c.defaults) {
		return nil, fmt.Errorf("%d lines, want %d: %w", len(lines), len(c.defaults), errBadShape)
	}

	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	if c.validate != nil {
		if err := c.validate(lines); err != nil {
			return nil, err
		}
	}

	return lines, nil
}

// errBadShape marks a record with the wrong number of lines.
var errBadShape = errors.New("unexpected record shape")
