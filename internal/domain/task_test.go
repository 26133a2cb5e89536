package domain

import (
	"testing"
	"time"
)

func TestDeriveCompletedAt_SetOnCompletion(t *testing.T) {
	now := time.Now()

	got := DeriveCompletedAt(StatusPending, StatusCompleted, nil, now)
	if got == nil || !got.Equal(now) {
		t.Fatalf("expected completed_at %v, got %v", now, got)
	}
}

func TestDeriveCompletedAt_ClearedOnPending(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	if got := DeriveCompletedAt(StatusCompleted, StatusPending, &earlier, now); got != nil {
		t.Fatalf("expected nil completed_at, got %v", got)
	}
	if got := DeriveCompletedAt(StatusPending, StatusPending, nil, now); got != nil {
		t.Fatalf("expected nil completed_at, got %v", got)
	}
}

func TestDeriveCompletedAt_PreservesExistingTimestamp(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	got := DeriveCompletedAt(StatusCompleted, StatusCompleted, &earlier, now)
	if got == nil || !got.Equal(earlier) {
		t.Fatalf("expected original completed_at %v to be preserved, got %v", earlier, got)
	}
}

func TestToggle_Flips(t *testing.T) {
	now := time.Now()
	task := Task{Status: StatusPending}

	task = Toggle(task, now)
	if task.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at %v, got %v", now, task.CompletedAt)
	}

	later := now.Add(time.Minute)
	task = Toggle(task, later)
	if task.Status != StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected nil completed_at after toggling back, got %v", task.CompletedAt)
	}
}

func TestToggle_TwicePairing(t *testing.T) {
	task := Task{Status: StatusPending}
	for i := 0; i < 2; i++ {
		task = Toggle(Toggle(task, time.Now()), time.Now())
		if task.Status != StatusPending || task.CompletedAt != nil {
			t.Fatalf("round %d: expected pending with nil completed_at, got %s %v",
				i, task.Status, task.CompletedAt)
		}
	}
}

func TestMarkCompleted_Idempotent(t *testing.T) {
	first := time.Now()
	task := MarkCompleted(Task{Status: StatusPending}, first)

	second := first.Add(time.Hour)
	task = MarkCompleted(task, second)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(first) {
		t.Fatalf("expected completed_at to stay %v, got %v", first, task.CompletedAt)
	}
}
