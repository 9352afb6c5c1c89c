package dao

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

// TestMain spins up a throwaway Postgres container for the DAO tests.
// Run with -short to skip them.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=gcc",
			"POSTGRES_DB=gcc_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=gcc password=secret dbname=gcc_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		testDB = db
		sqlDB, pingErr := db.DB()
		if pingErr != nil {
			return pingErr
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge container: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() || testDB == nil {
		t.Skip("skipping DAO integration tests in short mode")
	}

	// Fresh tables for every test.
	require.NoError(t, testDB.Exec(`
		TRUNCATE users, forms, questions, editions, events,
		         applicants, wishes, labels, applicant_labels, answers,
		         subscribers, subscriber_verifications
		RESTART IDENTITY CASCADE
	`).Error)

	return testDB
}

func seedApplicant(t *testing.T, db *gorm.DB) (Applicant, Event) {
	t.Helper()

	user := User{Email: "alice@example.com", Username: "alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	edition := Edition{Year: 2026}
	require.NoError(t, db.Create(&edition).Error)

	now := time.Now()
	event := Event{
		EditionID:   edition.ID,
		Center:      "Lyon",
		EventStart:  now.AddDate(0, 2, 0),
		EventEnd:    now.AddDate(0, 3, 0),
		SignupStart: now.AddDate(0, -1, 0),
		SignupEnd:   now.AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(&event).Error)

	dao := NewApplicantDAO(db)
	applicant, err := dao.GetOrCreate(context.Background(), user.ID, edition.ID)
	require.NoError(t, err)

	return applicant, event
}

func TestApplicantDAO_GetOrCreate(t *testing.T) {
	db := requireDB(t)
	dao := NewApplicantDAO(db)

	applicant, _ := seedApplicant(t, db)

	// A second call returns the same row instead of creating a duplicate.
	again, err := dao.GetOrCreate(context.Background(), applicant.UserID, applicant.EditionID)
	require.NoError(t, err)
	assert.Equal(t, applicant.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&Applicant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApplicantDAO_ReplaceWishes(t *testing.T) {
	db := requireDB(t)
	dao := NewApplicantDAO(db)
	ctx := context.Background()

	applicant, event := seedApplicant(t, db)

	err := dao.ReplaceWishes(ctx, applicant.ID, []Wish{
		{EventID: event.ID, Order: 1, Status: "incomplete"},
	})
	require.NoError(t, err)

	found, err := dao.FindByID(ctx, applicant.ID)
	require.NoError(t, err)
	require.Len(t, found.Wishes, 1)
	assert.Equal(t, "incomplete", found.Wishes[0].Status)

	// Two wishes on the same event violate the unique index.
	err = dao.ReplaceWishes(ctx, applicant.ID, []Wish{
		{EventID: event.ID, Order: 1, Status: "incomplete"},
		{EventID: event.ID, Order: 2, Status: "incomplete"},
	})
	assert.ErrorIs(t, err, ErrDuplicateWishEvent)
}

func TestApplicantDAO_MarkIncompleteWishesPending(t *testing.T) {
	db := requireDB(t)
	dao := NewApplicantDAO(db)
	ctx := context.Background()

	applicant, event := seedApplicant(t, db)

	rejected := Wish{ApplicantID: applicant.ID, EventID: event.ID, Order: 1, Status: "rejected"}
	require.NoError(t, db.Create(&rejected).Error)

	event2 := Event{
		EditionID:   event.EditionID,
		Center:      "Paris",
		EventStart:  event.EventStart,
		EventEnd:    event.EventEnd,
		SignupStart: event.SignupStart,
		SignupEnd:   event.SignupEnd,
	}
	require.NoError(t, db.Create(&event2).Error)
	incomplete := Wish{ApplicantID: applicant.ID, EventID: event2.ID, Order: 2, Status: "incomplete"}
	require.NoError(t, db.Create(&incomplete).Error)

	require.NoError(t, dao.MarkIncompleteWishesPending(ctx, applicant.ID))

	found, err := dao.FindByID(ctx, applicant.ID)
	require.NoError(t, err)
	require.Len(t, found.Wishes, 2)

	byEvent := make(map[uint]string)
	for _, w := range found.Wishes {
		byEvent[w.EventID] = w.Status
	}
	assert.Equal(t, "rejected", byEvent[event.ID], "rejected wishes must not move")
	assert.Equal(t, "pending", byEvent[event2.ID])
}

func TestApplicantDAO_AcceptAllSelected(t *testing.T) {
	db := requireDB(t)
	dao := NewApplicantDAO(db)
	ctx := context.Background()

	applicant, event := seedApplicant(t, db)

	selected := Wish{ApplicantID: applicant.ID, EventID: event.ID, Order: 1, Status: "selected"}
	require.NoError(t, db.Create(&selected).Error)

	updated, err := dao.AcceptAllSelected(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	// Idempotent: nothing selected is left.
	updated, err = dao.AcceptAllSelected(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)

	wish, err := dao.FindWishByID(ctx, selected.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", wish.Status)
	assert.Equal(t, applicant.ID, wish.Applicant.ID)
}

func TestApplicantDAO_Labels(t *testing.T) {
	db := requireDB(t)
	dao := NewApplicantDAO(db)
	ctx := context.Background()

	applicant, _ := seedApplicant(t, db)

	label := Label{Display: "shortlist"}
	require.NoError(t, db.Create(&label).Error)

	require.NoError(t, dao.AddLabel(ctx, applicant.ID, label.ID))
	assert.ErrorIs(t, dao.AddLabel(ctx, applicant.ID, label.ID), ErrLabelAlreadyApplied)

	found, err := dao.FindByID(ctx, applicant.ID)
	require.NoError(t, err)
	require.Len(t, found.Labels, 1)
	assert.Equal(t, "shortlist", found.Labels[0].Display)

	require.NoError(t, dao.RemoveLabel(ctx, applicant.ID, label.ID))
	assert.ErrorIs(t, dao.RemoveLabel(ctx, applicant.ID, label.ID), ErrLabelNotApplied)
}

func TestApplicantDAO_WishStatusCounts(t *testing.T) {
	db := requireDB(t)
	dao := NewApplicantDAO(db)
	ctx := context.Background()

	applicant, event := seedApplicant(t, db)

	require.NoError(t, db.Create(&Wish{ApplicantID: applicant.ID, EventID: event.ID, Order: 1, Status: "pending"}).Error)

	counts, err := dao.WishStatusCounts(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "pending", counts[0].Status)
	assert.Equal(t, int64(1), counts[0].Count)
}
