package status

import (
	"context"
	"fmt"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// ControllerStore is the controller -> display record.
type ControllerStore struct {
	ch *Channel
}

// NewControllerStore creates the 3-line controller status record at path.
func NewControllerStore(path string) *ControllerStore {
	validate := func(fields []string) error {
		_, err := alarm.ParseControllerStatus(fields)

		return err
	}

	return &ControllerStore{
		ch: NewChannel(path, alarm.DefaultControllerStatus().Fields(), validate),
	}
}

// Publish writes the status.
func (s *ControllerStore) Publish(ctx context.Context, st alarm.ControllerStatus) error {
	if err := s.ch.Write(ctx, st.Fields()); err != nil {
		return fmt.Errorf("publish controller status: %w", err)
	}

	return nil
}

// Load reads the status. healed is set when the default record was returned
// because the file was unusable.
func (s *ControllerStore) Load(ctx context.Context) (st alarm.ControllerStatus, healed bool, err error) {
	rec, err := s.ch.Read(ctx)
	if err != nil {
		return alarm.ControllerStatus{}, false, err
	}

	st, err = alarm.ParseControllerStatus(rec.Fields)
	if err != nil {
		return alarm.ControllerStatus{}, false, fmt.Errorf("parse controller status: %w", err)
	}

	return st, rec.Healed, nil
}

// Channel exposes the underlying record file.
func (s *ControllerStore) Channel() *Channel {
	return s.ch
}

// RequestStore is the display -> controller record.
type RequestStore struct {
	ch *Channel
}

// NewRequestStore creates the 1-line display request record at path.
func NewRequestStore(path string) *RequestStore {
	validate := func(fields []string) error {
		_, err := alarm.ParseDisplayRequest(fields[0])

		return err
	}

	return &RequestStore{
		ch: NewChannel(path, []string{alarm.NoRequest}, validate),
	}
}

// Submit writes a ring time request.
func (s *RequestStore) Submit(ctx context.Context, rt alarm.RingTime) error {
	if err := s.ch.Write(ctx, []string{rt.String()}); err != nil {
		return fmt.Errorf("submit display request: %w", err)
	}

	return nil
}

// Reset writes the sentinel.
func (s *RequestStore) Reset(ctx context.Context) error {
	if err := s.ch.Reset(ctx); err != nil {
		return fmt.Errorf("reset display request: %w", err)
	}

	return nil
}

// Load reads the request. A missing file reads as no request.
func (s *RequestStore) Load(ctx context.Context) (alarm.DisplayRequest, error) {
	rec, err := s.ch.Read(ctx)
	if err != nil {
		return alarm.DisplayRequest{}, err
	}

	req, err := alarm.ParseDisplayRequest(rec.Fields[0])
	if err != nil {
		return alarm.DisplayRequest{}, fmt.Errorf("parse display request: %w", err)
	}

	return req, nil
}

// WebStore is the active/inactive record read by the web front end. A store
// created with an empty path discards writes.
type WebStore struct {
	ch *Channel
}

// NewWebStore creates the web status record at path.
func NewWebStore(path string) *WebStore {
	if path == "" {
		return &WebStore{}
	}

	validate := func(fields []string) error {
		switch alarm.Phase(fields[0]) {
		case alarm.PhaseActive, alarm.PhaseInactive:
			return nil
		default:
			return fmt.Errorf("%q: %w", fields[0], alarm.ErrBadPhase)
		}
	}

	return &WebStore{
		ch: NewChannel(path, []string{string(alarm.PhaseInactive)}, validate),
	}
}

// Publish writes the phase.
func (s *WebStore) Publish(ctx context.Context, phase alarm.Phase) error {
	if s.ch == nil {
		return nil
	}

	if err := s.ch.Write(ctx, []string{string(phase)}); err != nil {
		return fmt.Errorf("publish web status: %w", err)
	}

	return nil
}
