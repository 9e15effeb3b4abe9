package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/roster/internal/roster"
)

func TestNewStore_StartsDisconnectedWithSeed(t *testing.T) {
	s := NewStore(roster.Sample())

	snap := s.Snapshot()
	if snap.Connected {
		t.Fatal("Connected = true, want false before any fetch")
	}
	if !snap.IsUsingFallback() {
		t.Fatal("IsUsingFallback() = false, want true for seeded store")
	}
	if !reflect.DeepEqual(snap.Records, roster.Sample()) {
		t.Fatalf("Records = %#v, want sample", snap.Records)
	}
}

func TestStore_PublishAndSnapshotClone(t *testing.T) {
	s := NewStore(nil)

	records := []roster.Record{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	before := time.Now()
	s.Publish(records, "CSV", 7)

	snap := s.Snapshot()
	if !snap.Connected || snap.Method != "CSV" {
		t.Fatalf("snapshot = %+v, want connected via CSV", snap)
	}
	if snap.Generation != 1 || snap.Seq != 7 {
		t.Fatalf("Generation=%d Seq=%d, want 1 and 7", snap.Generation, snap.Seq)
	}
	if snap.UsingSample {
		t.Fatal("UsingSample = true after publish")
	}
	if snap.LastUpdated.Before(before) || snap.LastSuccess.Before(before) {
		t.Fatalf("timestamps not updated: %+v", snap)
	}

	// Neither the caller's slice nor a returned snapshot may alias the store.
	records[0].Name = "mutated"
	snap.Records[1].Name = "mutated"
	snap2 := s.Snapshot()
	if snap2.Records[0].Name != "A" || snap2.Records[1].Name != "B" {
		t.Fatalf("store records aliased: %#v", snap2.Records)
	}
}

func TestStore_TouchKeepsRecordsAndGeneration(t *testing.T) {
	s := NewStore(nil)
	s.Publish([]roster.Record{{ID: 1, Name: "A"}}, "CSV", 1)
	s.Fail(errors.New("boom"), 2)
	prev := s.Snapshot()

	s.Touch("Visualization API", 3)

	snap := s.Snapshot()
	if snap.Generation != prev.Generation {
		t.Fatalf("Generation = %d, want unchanged %d", snap.Generation, prev.Generation)
	}
	if !reflect.DeepEqual(snap.Records, prev.Records) {
		t.Fatalf("Records changed on touch: %#v", snap.Records)
	}
	if !snap.Connected || snap.Method != "Visualization API" || snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("touch did not mark connected: %+v", snap)
	}
}

func TestStore_FailKeepsPreviousData(t *testing.T) {
	s := NewStore(nil)
	s.Publish([]roster.Record{{ID: 1, Name: "A"}}, "CSV", 1)

	origErr := errors.New("boom")
	if got := s.Fail(origErr, 2); got != 1 {
		t.Fatalf("Fail returned %d, want 1", got)
	}

	snap := s.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].Name != "A" {
		t.Fatalf("records changed on error: %#v", snap.Records)
	}
	if snap.Connected || snap.Method != "" {
		t.Fatalf("Connected=%v Method=%q, want disconnected", snap.Connected, snap.Method)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s := NewStore(nil)

	for i := 1; i <= 3; i++ {
		if got := s.Fail(errors.New("fail"), uint64(i)); got != i {
			t.Fatalf("Fail #%d returned %d", i, got)
		}
	}
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 3 {
		t.Fatalf("ConsecutiveFailures = %d, want 3", snap.ConsecutiveFailures)
	}

	s.Publish([]roster.Record{{ID: 1, Name: "A"}}, "CSV", 4)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
}

func TestStore_UseSample(t *testing.T) {
	s := NewStore(nil)
	s.UseSample(roster.Sample())

	snap := s.Snapshot()
	if !snap.UsingSample || snap.Generation != 1 {
		t.Fatalf("snapshot = %+v, want sample with generation 1", snap)
	}
	if !reflect.DeepEqual(snap.Records, roster.Sample()) {
		t.Fatalf("Records = %#v, want sample", snap.Records)
	}
}

func TestStore_InvalidDoesNotCountFailure(t *testing.T) {
	s := NewStore(nil)
	s.SetLoading(true)
	s.Invalid(errors.New("bad id"))

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.Loading || snap.LastError == nil {
		t.Fatalf("snapshot = %+v, want error recorded without failure count", snap)
	}
}

func TestStore_ChangesCoalesce(t *testing.T) {
	s := NewStore(nil)
	ch := s.Changes()

	s.SetLoading(true)
	s.SetLoading(false)
	s.Publish(nil, "CSV", 1)

	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce into one")
	default:
	}

	// SetLoading with the current value is not a change.
	s.SetLoading(false)
	select {
	case <-ch:
		t.Fatal("no-op SetLoading should not signal")
	default:
	}
}
