package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/extracenter/backend/internal/app/models"
)

func TestAggregateRosterDedup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.addUser(7, models.RoleTeacher)
	s1 := f.addUser(1, models.RoleStudent)
	s2 := f.addUser(2, models.RoleStudent)
	s3 := f.addUser(3, models.RoleStudent)
	centerA := f.addCenter(10, teacher.ID)
	centerB := f.addCenter(20, teacher.ID)

	// 10:{1,2}, 20:{2,3} -> 1:[10], 2:[10,20], 3:[20]
	_ = f.memberships.Assign(ctx, centerA.ID, s1.ID)
	_ = f.memberships.Assign(ctx, centerA.ID, s2.ID)
	_ = f.memberships.Assign(ctx, centerB.ID, s2.ID)
	_ = f.memberships.Assign(ctx, centerB.ID, s3.ID)

	svc := NewRosterService(f.centers, f.memberships, time.Second)
	roster, err := svc.AggregateRoster(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if len(roster.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", roster.Warnings)
	}
	if len(roster.Entries) != 3 {
		t.Fatalf("expected 3 distinct students, got %d", len(roster.Entries))
	}

	wantCenters := map[int64][]int64{
		s1.ID: {centerA.ID},
		s2.ID: {centerA.ID, centerB.ID},
		s3.ID: {centerB.ID},
	}
	wantOrder := []int64{s1.ID, s2.ID, s3.ID}

	for i, entry := range roster.Entries {
		if entry.Student.ID != wantOrder[i] {
			t.Errorf("entry %d: expected student %d, got %d", i, wantOrder[i], entry.Student.ID)
		}
		want := wantCenters[entry.Student.ID]
		if len(entry.ConnectedCenters) != len(want) {
			t.Errorf("student %d: expected centers %v, got %v", entry.Student.ID, want, entry.ConnectedCenters)
			continue
		}
		for j, ref := range entry.ConnectedCenters {
			if ref.ID != want[j] {
				t.Errorf("student %d: expected center %d at %d, got %d", entry.Student.ID, want[j], j, ref.ID)
			}
		}
	}
}

func TestAggregateRosterIncludesTeachingCenters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.addUser(7, models.RoleTeacher)
	otherManager := f.addUser(8, models.RoleTeacher)
	s1 := f.addUser(1, models.RoleStudent)
	managed := f.addCenter(10, teacher.ID)
	teaching := f.addCenter(20, otherManager.ID)
	f.centers.teaching[teacher.ID] = []int64{teaching.ID}

	_ = f.memberships.Assign(ctx, managed.ID, s1.ID)
	_ = f.memberships.Assign(ctx, teaching.ID, s1.ID)

	svc := NewRosterService(f.centers, f.memberships, time.Second)
	roster, err := svc.AggregateRoster(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if len(roster.Entries) != 1 {
		t.Fatalf("expected 1 distinct student, got %d", len(roster.Entries))
	}
	refs := roster.Entries[0].ConnectedCenters
	if len(refs) != 2 || refs[0].ID != managed.ID || refs[1].ID != teaching.ID {
		t.Errorf("expected managed center before teaching center, got %v", refs)
	}
}

func TestAggregateRosterPartialFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.addUser(7, models.RoleTeacher)
	s1 := f.addUser(1, models.RoleStudent)
	s3 := f.addUser(3, models.RoleStudent)
	centerA := f.addCenter(10, teacher.ID)
	centerB := f.addCenter(20, teacher.ID)

	_ = f.memberships.Assign(ctx, centerA.ID, s1.ID)
	_ = f.memberships.Assign(ctx, centerB.ID, s3.ID)
	f.memberships.listErrs[centerB.ID] = errors.New("connection refused")

	svc := NewRosterService(f.centers, f.memberships, time.Second)
	roster, err := svc.AggregateRoster(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("expected partial result, got error %v", err)
	}

	if len(roster.Entries) != 1 || roster.Entries[0].Student.ID != s1.ID {
		t.Errorf("expected only center A students, got %v", roster.Entries)
	}
	if len(roster.Warnings) != 1 {
		t.Errorf("expected one warning for the failed center, got %v", roster.Warnings)
	}
}

func TestAggregateRosterEmpty(t *testing.T) {
	f := newFixture()
	teacher := f.addUser(7, models.RoleTeacher)

	svc := NewRosterService(f.centers, f.memberships, time.Second)
	roster, err := svc.AggregateRoster(context.Background(), teacher.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(roster.Entries) != 0 || len(roster.Warnings) != 0 {
		t.Errorf("expected empty roster, got %+v", roster)
	}
}
