package shootservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	shootdb "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories"
	shootmigrations "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
	"github.com/Black-And-White-Club/archery-scorer/internal/testutils"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

const testRoundID int64 = 7

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// recordingMetrics counts the scoring metrics and ignores the rest.
type recordingMetrics struct {
	metrics.NoOp
	arrows    int
	completed []string
	exports   int
}

func (m *recordingMetrics) RecordArrowsRecorded(_ context.Context, count int) { m.arrows += count }
func (m *recordingMetrics) RecordRoundCompleted(_ context.Context, roundName string) {
	m.completed = append(m.completed, roundName)
}
func (m *recordingMetrics) RecordExportGenerated(context.Context, string) { m.exports++ }

// shortRound is an outdoor imperial round of 6 arrows at 60yd then 4 at 50yd.
func shortRound(t *testing.T) (rounddomain.Round, rounddomain.Structure) {
	t.Helper()
	round := rounddomain.Round{ID: testRoundID, Name: "short-test", DisplayName: "Short Test", IsOutdoor: true}
	structure, err := rounddomain.NewStructure(
		[]rounddomain.RoundArrowCount{
			{RoundID: testRoundID, DistanceIndex: 1, ArrowCount: 6},
			{RoundID: testRoundID, DistanceIndex: 2, ArrowCount: 4},
		},
		[]rounddomain.RoundDistance{
			{RoundID: testRoundID, SubTypeID: 1, DistanceIndex: 1, Distance: 60},
			{RoundID: testRoundID, SubTypeID: 1, DistanceIndex: 2, Distance: 50},
		},
	)
	require.NoError(t, err)
	return round, structure
}

func shortRoundCatalogue(t *testing.T) *FakeRoundCatalogue {
	round, structure := shortRound(t)
	return &FakeRoundCatalogue{
		GetRoundStructureFunc: func(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error) {
			if roundID != testRoundID {
				return rounddomain.Round{}, rounddomain.Structure{}, fmt.Errorf("%w: %d", roundservice.ErrRoundNotFound, roundID)
			}
			return round, structure, nil
		},
	}
}

type testEnv struct {
	service *ShootService
	repo    shootdb.Repository
	db      *bun.DB
	metrics *recordingMetrics
}

func newTestEnv(t *testing.T, catalogue RoundCatalogue) testEnv {
	t.Helper()
	db := testutils.NewSQLiteDB(t, bundb.Module{Name: "shoot", Migrations: shootmigrations.Migrations})
	repo := shootdb.NewRepository(db)
	m := &recordingMetrics{}
	scoring := config.Default().Scoring
	scoring.EndSize = 3
	svc := NewShootService(repo, catalogue, testutils.DiscardLogger(), m, nil, db, scoring, WithClock(fixedClock{now: testNow}))
	return testEnv{service: svc, repo: repo, db: db, metrics: m}
}

func roundID(id int64) *int64 { return &id }

func mustArrows(t *testing.T, s string) []shootdomain.Arrow {
	t.Helper()
	arrows, err := shootdomain.ParseArrows(s)
	require.NoError(t, err)
	return arrows
}

func TestCreateShoot(t *testing.T) {
	infraErr := errors.New("catalogue down")

	tests := []struct {
		name      string
		catalogue func(t *testing.T) *FakeRoundCatalogue
		req       CreateShootRequest
		wantErr   error
		wantAny   bool
		verify    func(t *testing.T, shoot shootdomain.Shoot)
	}{
		{
			name: "practice defaults",
			req:  CreateShootRequest{ArcherID: "archer-1"},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				assert.Nil(t, shoot.RoundID)
				assert.Equal(t, 3, shoot.EndSize)
				assert.Equal(t, shootdomain.NinesUp, shoot.Golds)
				assert.True(t, shoot.ShotAt.Equal(testNow))
				assert.Zero(t, shoot.SubTypeID)
			},
		},
		{
			name:      "round resolves sub-type and golds",
			catalogue: shortRoundCatalogue,
			req:       CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID), EndSize: 6},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				require.NotNil(t, shoot.RoundID)
				assert.Equal(t, testRoundID, *shoot.RoundID)
				assert.Equal(t, 1, shoot.SubTypeID)
				assert.Equal(t, 6, shoot.EndSize)
				assert.Equal(t, shootdomain.NinesUp, shoot.Golds)
			},
		},
		{
			name: "indoor round counts tens",
			catalogue: func(t *testing.T) *FakeRoundCatalogue {
				_, structure := shortRound(t)
				return &FakeRoundCatalogue{
					GetRoundStructureFunc: func(ctx context.Context, id int64, sub int) (rounddomain.Round, rounddomain.Structure, error) {
						return rounddomain.Round{ID: id, Name: "portsmouth"}, structure, nil
					},
				}
			},
			req: CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				assert.Equal(t, shootdomain.TensOnly, shoot.Golds)
			},
		},
		{
			name: "sub-type comes from the resolved structure",
			catalogue: func(t *testing.T) *FakeRoundCatalogue {
				round, structure := shortRound(t)
				structure.SubTypeID = 2
				return &FakeRoundCatalogue{
					GetRoundStructureFunc: func(ctx context.Context, id int64, sub int) (rounddomain.Round, rounddomain.Structure, error) {
						return round, structure, nil
					},
				}
			},
			req: CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID), SubTypeID: 5},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				assert.Equal(t, 2, shoot.SubTypeID)
			},
		},
		{
			name: "structure without sub-type falls back to the first",
			catalogue: func(t *testing.T) *FakeRoundCatalogue {
				round, _ := shortRound(t)
				return &FakeRoundCatalogue{
					GetRoundStructureFunc: func(ctx context.Context, id int64, sub int) (rounddomain.Round, rounddomain.Structure, error) {
						return round, rounddomain.Structure{}, nil
					},
				}
			},
			req: CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID), SubTypeID: 3},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				assert.Equal(t, 1, shoot.SubTypeID)
			},
		},
		{
			name:      "explicit golds override",
			catalogue: shortRoundCatalogue,
			req:       CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID), Golds: "x_only"},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				assert.Equal(t, shootdomain.XOnly, shoot.Golds)
			},
		},
		{
			name: "rfc3339 shot time",
			req:  CreateShootRequest{ArcherID: "archer-1", ShotAt: "2026-05-01T09:30:00Z"},
			verify: func(t *testing.T, shoot shootdomain.Shoot) {
				assert.True(t, shoot.ShotAt.Equal(time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)))
			},
		},
		{
			name:    "missing archer",
			req:     CreateShootRequest{},
			wantErr: ErrInvalidShoot,
		},
		{
			name:    "negative end size",
			req:     CreateShootRequest{ArcherID: "archer-1", EndSize: -1},
			wantErr: ErrInvalidShoot,
		},
		{
			name:    "future shot time",
			req:     CreateShootRequest{ArcherID: "archer-1", ShotAt: "2026-06-01T00:00:00Z"},
			wantErr: ErrInvalidShoot,
		},
		{
			name:    "unknown golds",
			req:     CreateShootRequest{ArcherID: "archer-1", Golds: "eights"},
			wantErr: ErrInvalidShoot,
		},
		{
			name:      "unknown round",
			catalogue: shortRoundCatalogue,
			req:       CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(99)},
			wantErr:   ErrUnknownRound,
		},
		{
			name: "catalogue error",
			catalogue: func(t *testing.T) *FakeRoundCatalogue {
				return &FakeRoundCatalogue{
					GetRoundStructureFunc: func(context.Context, int64, int) (rounddomain.Round, rounddomain.Structure, error) {
						return rounddomain.Round{}, rounddomain.Structure{}, infraErr
					},
				}
			},
			req:     CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)},
			wantErr: infraErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogue := &FakeRoundCatalogue{}
			if tt.catalogue != nil {
				catalogue = tt.catalogue(t)
			}
			env := newTestEnv(t, catalogue)

			shoot, err := env.service.CreateShoot(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, shoot.ID)

			stored, err := env.service.GetShoot(context.Background(), shoot.ID)
			require.NoError(t, err)
			assert.Equal(t, shoot.Golds, stored.Golds)
			assert.Equal(t, shoot.EndSize, stored.EndSize)

			if tt.verify != nil {
				tt.verify(t, shoot)
			}
		})
	}
}

func TestRecordArrows_TracksRoundCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, shortRoundCatalogue(t))

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)})
	require.NoError(t, err)

	first, err := env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "X 9 9 7"))
	require.NoError(t, err)
	assert.Equal(t, 4, first.Recorded)
	assert.Equal(t, 4, first.ArrowCount)
	assert.Equal(t, 35, first.Totals.Score)
	assert.False(t, first.RoundComplete)
	require.NotNil(t, first.Remaining)
	assert.Equal(t, shootdomain.DistanceArrows{Count: 2, Distance: 60, Unit: rounddomain.Yards}, first.Remaining.Current)
	assert.Equal(t, []shootdomain.DistanceArrows{{Count: 4, Distance: 50, Unit: rounddomain.Yards}}, first.Remaining.Later)

	second, err := env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "7 7 5 5 5 M"))
	require.NoError(t, err)
	assert.Equal(t, 10, second.ArrowCount)
	assert.True(t, second.RoundComplete)
	assert.True(t, second.JustCompleted)
	assert.Nil(t, second.Remaining)

	surplus, err := env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "4"))
	require.NoError(t, err)
	assert.Equal(t, 11, surplus.ArrowCount)
	assert.True(t, surplus.RoundComplete)
	assert.False(t, surplus.JustCompleted)

	assert.Equal(t, 11, env.metrics.arrows)
	assert.Equal(t, []string{"short-test"}, env.metrics.completed)
}

func TestRecordArrows_Failures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, &FakeRoundCatalogue{})

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1"})
	require.NoError(t, err)

	_, err = env.service.RecordArrows(ctx, shoot.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidArrows)

	_, err = env.service.RecordArrows(ctx, shoot.ID, []shootdomain.Arrow{{Score: 11}})
	assert.ErrorIs(t, err, ErrInvalidArrows)

	_, err = env.service.RecordArrows(ctx, uuid.New(), mustArrows(t, "9"))
	assert.ErrorIs(t, err, ErrShootNotFound)
}

func TestRecordArrows_RepositoryCalls(t *testing.T) {
	shootID := uuid.New()
	appendErr := errors.New("disk full")

	tests := []struct {
		name      string
		setup     func(*FakeShootRepo)
		wantErr   error
		wantTrace []string
	}{
		{
			name: "appends after the last arrow",
			setup: func(f *FakeShootRepo) {
				f.GetShootFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*shootdb.Shoot, error) {
					return &shootdb.Shoot{ID: id, ArcherID: "archer-1", EndSize: 6, GoldsType: "nines_up"}, nil
				}
				f.CountArrowsFunc = func(context.Context, bun.IDB, uuid.UUID) (int, error) { return 5, nil }
				f.AppendArrowsFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID, firstNumber int, arrows []shootdomain.Arrow) error {
					if firstNumber != 6 {
						return fmt.Errorf("unexpected first number %d", firstNumber)
					}
					return nil
				}
			},
			wantTrace: []string{"GetShoot", "CountArrows", "AppendArrows", "GetArrows"},
		},
		{
			name: "append error is not a failure",
			setup: func(f *FakeShootRepo) {
				f.GetShootFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*shootdb.Shoot, error) {
					return &shootdb.Shoot{ID: id, ArcherID: "archer-1", EndSize: 6, GoldsType: "nines_up"}, nil
				}
				f.AppendArrowsFunc = func(context.Context, bun.IDB, uuid.UUID, int, []shootdomain.Arrow) error { return appendErr }
			},
			wantErr:   appendErr,
			wantTrace: []string{"GetShoot", "CountArrows", "AppendArrows"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeShootRepo()
			tt.setup(repo)
			svc := NewShootService(repo, &FakeRoundCatalogue{}, testutils.DiscardLogger(), metrics.NoOp{}, nil, nil, config.ScoringConfig{})

			_, err := svc.RecordArrows(context.Background(), shootID, mustArrows(t, "9 8"))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, ErrInvalidArrows)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantTrace, repo.Trace())
		})
	}
}

func TestEditAndDeleteArrows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, &FakeRoundCatalogue{})

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1"})
	require.NoError(t, err)
	_, err = env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "9 8 7"))
	require.NoError(t, err)

	require.NoError(t, env.service.EditArrow(ctx, shoot.ID, 2, shootdomain.Arrow{Score: 10, IsX: true}))
	assert.ErrorIs(t, env.service.EditArrow(ctx, shoot.ID, 4, shootdomain.Arrow{Score: 1}), ErrArrowNotFound)
	assert.ErrorIs(t, env.service.EditArrow(ctx, shoot.ID, 0, shootdomain.Arrow{Score: 1}), ErrInvalidArrows)
	assert.ErrorIs(t, env.service.EditArrow(ctx, shoot.ID, 1, shootdomain.Arrow{Score: 9, IsX: true}), ErrInvalidArrows)
	assert.ErrorIs(t, env.service.EditArrow(ctx, uuid.New(), 1, shootdomain.Arrow{Score: 1}), ErrShootNotFound)

	left, err := env.service.DeleteLastArrow(ctx, shoot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	pad, err := env.service.GetScorePad(ctx, shoot.ID, "en-GB")
	require.NoError(t, err)
	require.NotEmpty(t, pad.Rows)
	assert.Equal(t, []string{"9", "X", "."}, pad.Rows[0].Cells)

	_, err = env.service.DeleteLastArrow(ctx, shoot.ID)
	require.NoError(t, err)
	_, err = env.service.DeleteLastArrow(ctx, shoot.ID)
	require.NoError(t, err)
	_, err = env.service.DeleteLastArrow(ctx, shoot.ID)
	assert.ErrorIs(t, err, ErrNoArrows)
}

func TestGetScorePad(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, shortRoundCatalogue(t))

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)})
	require.NoError(t, err)
	_, err = env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "X 9 9 7 7 7 5 5 5 M"))
	require.NoError(t, err)

	pad, err := env.service.GetScorePad(ctx, shoot.ID, "en-GB")
	require.NoError(t, err)
	assert.Equal(t, "en-GB", pad.Locale)
	require.NotNil(t, pad.Round)
	assert.Equal(t, "short-test", pad.Round.Name)

	labels := make([]string, 0, len(pad.Rows))
	for _, row := range pad.Rows {
		labels = append(labels, row.Label)
	}
	assert.Equal(t, []string{"End 1", "End 2", "60yd total", "End 3", "End 4", "50yd total", "Total"}, labels)

	assert.Equal(t, "X 9 9", pad.Rows[0].Text)
	assert.Equal(t, 28, pad.Rows[0].RunningTotal)
	assert.Equal(t, shootdomain.Totals{Arrows: 6, Hits: 6, Score: 49, Golds: 3}, pad.Rows[2].Totals)
	assert.Equal(t, []string{"M"}, pad.Rows[4].Cells)
	assert.Equal(t, 64, pad.Rows[4].RunningTotal)
	assert.Equal(t, shootdomain.Totals{Arrows: 10, Hits: 9, Score: 64, Golds: 3}, pad.Totals)
	assert.Equal(t, "6.40", pad.Average)

	fr, err := env.service.GetScorePad(ctx, shoot.ID, "fr-FR")
	require.NoError(t, err)
	assert.Equal(t, "fr", fr.Locale)
	assert.Equal(t, "Volée 1", fr.Rows[0].Label)
	assert.Equal(t, "Total 60yd", fr.Rows[2].Label)

	fallback, err := env.service.GetScorePad(ctx, shoot.ID, "not a locale")
	require.NoError(t, err)
	assert.Equal(t, "en-GB", fallback.Locale)

	_, err = env.service.GetScorePad(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, ErrShootNotFound)
}

func TestGetRemainingArrows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, shortRoundCatalogue(t))

	practice, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1"})
	require.NoError(t, err)
	remaining, err := env.service.GetRemainingArrows(ctx, practice.ID)
	require.NoError(t, err)
	assert.Nil(t, remaining)

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)})
	require.NoError(t, err)

	remaining, err = env.service.GetRemainingArrows(ctx, shoot.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Equal(t, 10, remaining.Total())

	_, err = env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "9 9 9 9 9 9 9"))
	require.NoError(t, err)
	remaining, err = env.service.GetRemainingArrows(ctx, shoot.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Equal(t, shootdomain.DistanceArrows{Count: 3, Distance: 50, Unit: rounddomain.Yards}, remaining.Current)
	assert.Empty(t, remaining.Later)
}

func TestWorkbookRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, shortRoundCatalogue(t))

	source, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)})
	require.NoError(t, err)
	arrows := mustArrows(t, "X 9 9 7 7 7 5 5")
	_, err = env.service.RecordArrows(ctx, source.ID, arrows)
	require.NoError(t, err)

	data, err := env.service.ExportWorkbook(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
	assert.Equal(t, 1, env.metrics.exports)

	target, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)})
	require.NoError(t, err)
	n, err := env.service.ImportWorkbook(ctx, target.ID, data)
	require.NoError(t, err)
	assert.Equal(t, len(arrows), n)

	want, err := env.service.GetScorePad(ctx, source.ID, "")
	require.NoError(t, err)
	got, err := env.service.GetScorePad(ctx, target.ID, "")
	require.NoError(t, err)
	assert.Equal(t, want.Rows, got.Rows)

	_, err = env.service.ImportWorkbook(ctx, target.ID, []byte("not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidWorkbook)
}

func TestRenderRunningTotalChart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, &FakeRoundCatalogue{})

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1"})
	require.NoError(t, err)

	empty, err := env.service.RenderRunningTotalChart(ctx, shoot.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, pngSignature))

	_, err = env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "M M M 9 9 9"))
	require.NoError(t, err)
	png, err := env.service.RenderRunningTotalChart(ctx, shoot.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestExports(t *testing.T) {
	ctx := context.Background()
	catalogue := shortRoundCatalogue(t)
	env := newTestEnv(t, catalogue)

	shoot, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", RoundID: roundID(testRoundID)})
	require.NoError(t, err)
	_, err = env.service.RecordArrows(ctx, shoot.ID, mustArrows(t, "9 9 9"))
	require.NoError(t, err)

	_, err = env.service.RequestExport(ctx, shoot.ID)
	require.Error(t, err, "no queue bound")

	queue := &FakeExportQueue{}
	env.service.SetExportQueue(queue)

	pending, err := env.service.RequestExport(ctx, shoot.ID)
	require.NoError(t, err)
	assert.Equal(t, shootdomain.ExportPending, pending.Status)
	require.Len(t, queue.Enqueued, 1)
	assert.Equal(t, [2]uuid.UUID{shoot.ID, pending.ID}, queue.Enqueued[0])

	done, err := env.service.GenerateExport(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, shootdomain.ExportCompleted, done.Status)
	assert.NotEmpty(t, done.Content)

	stored, err := env.service.GetExport(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, shootdomain.ExportCompleted, stored.Status)
	assert.Equal(t, done.Content, stored.Content)

	_, err = env.service.GetExport(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrExportNotFound)
	_, err = env.service.RequestExport(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrShootNotFound)

	// A round removed from the catalogue fails the export instead of retrying it.
	orphan, err := env.service.RequestExport(ctx, shoot.ID)
	require.NoError(t, err)
	catalogue.GetRoundStructureFunc = func(ctx context.Context, id int64, sub int) (rounddomain.Round, rounddomain.Structure, error) {
		return rounddomain.Round{}, rounddomain.Structure{}, roundservice.ErrRoundNotFound
	}
	_, err = env.service.GenerateExport(ctx, orphan.ID)
	require.ErrorIs(t, err, ErrUnknownRound)

	failed, err := env.service.GetExport(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, shootdomain.ExportFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)
}

func TestListAndDeleteShoots(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, &FakeRoundCatalogue{})

	older, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1", ShotAt: "2026-05-01"})
	require.NoError(t, err)
	newer, err := env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-1"})
	require.NoError(t, err)
	_, err = env.service.CreateShoot(ctx, CreateShootRequest{ArcherID: "archer-2"})
	require.NoError(t, err)

	shoots, err := env.service.ListShoots(ctx, "archer-1")
	require.NoError(t, err)
	require.Len(t, shoots, 2)
	assert.Equal(t, newer.ID, shoots[0].ID)
	assert.Equal(t, older.ID, shoots[1].ID)

	_, err = env.service.RecordArrows(ctx, older.ID, mustArrows(t, "9 9"))
	require.NoError(t, err)
	require.NoError(t, env.service.DeleteShoot(ctx, older.ID))

	_, err = env.service.GetShoot(ctx, older.ID)
	assert.ErrorIs(t, err, ErrShootNotFound)
	assert.ErrorIs(t, env.service.DeleteShoot(ctx, older.ID), ErrShootNotFound)
}
