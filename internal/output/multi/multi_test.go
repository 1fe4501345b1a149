package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/crimson-sun/tracelens/internal/model"
)

type fakeOutput struct {
	writes   int
	closes   int
	writeErr error
	closeErr error
}

func (f *fakeOutput) Write(context.Context, *model.Report) error {
	f.writes++
	return f.writeErr
}

func (f *fakeOutput) Close() error {
	f.closes++
	return f.closeErr
}

func TestWriteFansOut(t *testing.T) {
	a := &fakeOutput{}
	b := &fakeOutput{}
	m := New(a, b)

	if err := m.Write(context.Background(), &model.Report{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if a.writes != 1 || b.writes != 1 {
		t.Errorf("writes = %d, %d; want 1, 1", a.writes, b.writes)
	}
}

func TestWriteContinuesPastFailure(t *testing.T) {
	failed := errors.New("boom")
	a := &fakeOutput{writeErr: failed}
	b := &fakeOutput{}
	m := New(a, b)

	err := m.Write(context.Background(), &model.Report{})
	if !errors.Is(err, failed) {
		t.Fatalf("err = %v, want wrapped %v", err, failed)
	}
	if b.writes != 1 {
		t.Errorf("second output writes = %d, want 1", b.writes)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	failed := errors.New("close boom")
	a := &fakeOutput{closeErr: failed}
	b := &fakeOutput{}
	m := New(a, b)

	err := m.Close()
	if !errors.Is(err, failed) {
		t.Fatalf("err = %v, want wrapped %v", err, failed)
	}
	if a.closes != 1 || b.closes != 1 {
		t.Errorf("closes = %d, %d; want 1, 1", a.closes, b.closes)
	}
}
