package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nachokhan/peke-panel/internal/api"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	services := []api.Service{{ID: "a", Name: "web"}, {ID: "b", Name: "db"}}

	before := time.Now()
	s.Update(services, nil)

	snap := s.Snapshot()
	if !snap.HasStatus {
		t.Fatalf("HasStatus = false, want true")
	}
	if len(snap.Services) != 2 || snap.Services[0].ID != "a" {
		t.Fatalf("snapshot services = %#v, want 2 items", snap.Services)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	snap.Services[0].ID = "mutated"
	snap2 := s.Snapshot()
	if snap2.Services[0].ID != "a" {
		t.Fatalf("Snapshot should clone services; got id %q want a", snap2.Services[0].ID)
	}
	if svc, ok := snap2.Find("b"); !ok || svc.Name != "db" {
		t.Fatalf("Find(b) = %#v,%v", svc, ok)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]api.Service{{ID: "a"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if !snap.HasStatus || len(snap.Services) != 1 {
		t.Fatalf("services changed on error: %#v", snap.Services)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: %d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: %d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update([]api.Service{}, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: %d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_Reset(t *testing.T) {
	var s Store
	s.Update([]api.Service{{ID: "a"}}, nil)
	s.Update(nil, errors.New("x"))
	s.Reset()

	snap := s.Snapshot()
	if snap.HasStatus || len(snap.Services) != 0 || snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("Reset left data behind: %#v", snap)
	}
}
