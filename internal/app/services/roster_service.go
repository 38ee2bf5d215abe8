package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// RosterService aggregates a teacher's students across every center they
// manage or teach at.
type RosterService interface {
	AggregateRoster(ctx context.Context, teacherID int64) (*dto.RosterResponse, error)
	AggregateManagedRoster(ctx context.Context, teacherID int64) (*dto.RosterResponse, error)
}

// rosterServiceImpl implements the RosterService interface
type rosterServiceImpl struct {
	centerRepo     CenterRepo
	membershipRepo MembershipRepo
	fetchTimeout   time.Duration
}

// NewRosterService creates a new roster service instance. fetchTimeout
// bounds each per-center read.
func NewRosterService(centerRepo CenterRepo, membershipRepo MembershipRepo, fetchTimeout time.Duration) RosterService {
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	return &rosterServiceImpl{
		centerRepo:     centerRepo,
		membershipRepo: membershipRepo,
		fetchTimeout:   fetchTimeout,
	}
}

type centerFetchResult struct {
	students []*models.User
	err      error
}

// AggregateRoster fans out one membership read per connected center, then
// merges the results into distinct students. A failing center is skipped and
// reported in the warnings list instead of aborting the whole roster; each
// student keeps the order in which they were first seen.
func (s *rosterServiceImpl) AggregateRoster(ctx context.Context, teacherID int64) (*dto.RosterResponse, error) {
	managed, err := s.centerRepo.GetByManagerID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error loading managed centers: %w", err)
	}
	teaching, err := s.centerRepo.GetTeachingByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error loading teaching centers: %w", err)
	}

	// Managed centers first, then teaching-at, without duplicates.
	centers := make([]*models.Center, 0, len(managed)+len(teaching))
	seen := make(map[int64]bool, len(managed)+len(teaching))
	for _, center := range append(managed, teaching...) {
		if seen[center.ID] {
			continue
		}
		seen[center.ID] = true
		centers = append(centers, center)
	}

	return s.aggregateCenters(ctx, teacherID, centers)
}

// AggregateManagedRoster builds the same merged roster restricted to the
// centers the teacher manages. Teaching-at centers are excluded; the admin
// stats rollup counts a teacher's own students only.
func (s *rosterServiceImpl) AggregateManagedRoster(ctx context.Context, teacherID int64) (*dto.RosterResponse, error) {
	managed, err := s.centerRepo.GetByManagerID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error loading managed centers: %w", err)
	}
	return s.aggregateCenters(ctx, teacherID, managed)
}

func (s *rosterServiceImpl) aggregateCenters(ctx context.Context, teacherID int64, centers []*models.Center) (*dto.RosterResponse, error) {
	results := make([]centerFetchResult, len(centers))
	var wg sync.WaitGroup
	for i, center := range centers {
		wg.Add(1)
		go func(slot int, centerID int64) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()
			students, err := s.membershipRepo.ListStudentsByCenterID(fetchCtx, centerID)
			results[slot] = centerFetchResult{students: students, err: err}
		}(i, center.ID)
	}
	wg.Wait()

	response := &dto.RosterResponse{Entries: []dto.RosterEntry{}}
	index := make(map[int64]int) // student id -> position in Entries

	for i, center := range centers {
		if results[i].err != nil {
			logger.Warn().Err(results[i].err).Int64("centerID", center.ID).Int64("teacherID", teacherID).
				Msg("Skipping unreadable center during roster aggregation")
			response.Warnings = append(response.Warnings,
				fmt.Sprintf("center %d (%s) could not be read", center.ID, center.Name))
			continue
		}

		for _, student := range results[i].students {
			pos, ok := index[student.ID]
			if !ok {
				index[student.ID] = len(response.Entries)
				response.Entries = append(response.Entries, dto.RosterEntry{
					Student:          student,
					ConnectedCenters: []dto.CenterRef{{ID: center.ID, Name: center.Name}},
				})
				continue
			}

			entry := &response.Entries[pos]
			duplicate := false
			for _, ref := range entry.ConnectedCenters {
				if ref.ID == center.ID {
					duplicate = true
					break
				}
			}
			if !duplicate {
				entry.ConnectedCenters = append(entry.ConnectedCenters, dto.CenterRef{ID: center.ID, Name: center.Name})
			}
		}
	}

	return response, nil
}
