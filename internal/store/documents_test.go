// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

func testDocument() *types.Document {
	return &types.Document{
		FileName:   "supply-agreement.pdf",
		SourceURL:  "https://files.example.com/supply-agreement.txt",
		UploadedBy: "alice",
		GroupID:    "acme",
	}
}

func TestCreateAndGetDocument(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, testToday, doc.UploadedAt)

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.FileName, got.FileName)
	assert.Equal(t, doc.SourceURL, got.SourceURL)
	assert.Equal(t, doc.GroupID, got.GroupID)
	assert.Empty(t, got.ContractName)
	assert.True(t, got.StartDate.IsZero())
}

func TestCreateDocumentRequiresFields(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	doc.FileName = ""
	require.Error(t, s.CreateDocument(ctx, doc))

	doc = testDocument()
	doc.GroupID = ""
	require.Error(t, s.CreateDocument(ctx, doc))
}

func TestSetDocumentMetadata(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))

	meta := DocumentMetadata{
		ContractName:    "Supply Agreement 2024",
		ContractDetails: "annual supply of widgets",
		StartDate:       mustDate(t, 2024, 1, 1),
		EndDate:         mustDate(t, 2024, 12, 31),
	}
	require.NoError(t, s.SetDocumentMetadata(ctx, doc.ID, meta))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.ContractName, got.ContractName)
	assert.Equal(t, meta.ContractDetails, got.ContractDetails)
	assert.Equal(t, meta.StartDate, got.StartDate)
	assert.Equal(t, meta.EndDate, got.EndDate)
	assert.Equal(t, testToday, got.MetadataUpdated)
}

func TestSetDocumentMetadataNotFound(t *testing.T) {
	s := testStore(t)
	err := s.SetDocumentMetadata(context.Background(), "missing", DocumentMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateLinked(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))

	recs := []*types.Deadline{
		testDeadline(mustDate(t, 2024, 4, 30)),
		testDeadline(mustDate(t, 2024, 3, 18)),
	}
	require.NoError(t, s.CreateLinked(ctx, doc.ID, recs))

	// Both records exist with derived statuses.
	got, err := s.GetDeadline(ctx, recs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, got.Status)

	got, err = s.GetDeadline(ctx, recs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDeadline, got.Status)

	// Both are linked to the document.
	ids, err := s.LinkedDeadlineIDs(ctx, doc.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{recs[0].ID, recs[1].ID}, ids)
}

func TestCreateLinkedRejectsInvalidUpFront(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))

	good := testDeadline(mustDate(t, 2024, 4, 30))
	bad := testDeadline(mustDate(t, 2024, 4, 30))
	bad.Title = ""

	err := s.CreateLinked(ctx, doc.ID, []*types.Deadline{good, bad})
	require.Error(t, err)

	// Validation happens before any write; nothing may survive.
	records, err := s.listAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateLinkedRollsBackOnFailure(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))

	// Two valid records sharing an ID: the second insert violates the
	// primary key partway through the transaction.
	first := testDeadline(mustDate(t, 2024, 4, 30))
	first.ID = "01HTESTDUPLICATEID0000000X"
	second := testDeadline(mustDate(t, 2024, 5, 31))
	second.ID = first.ID

	err := s.CreateLinked(ctx, doc.ID, []*types.Deadline{first, second})
	require.Error(t, err)

	// The whole batch rolls back, including the first insert and link.
	records, err := s.listAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	ids, err := s.LinkedDeadlineIDs(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCreateLinkedEmptyBatch(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.CreateLinked(context.Background(), "whatever", nil))
}

func TestDeleteDocumentKeepsDeadlines(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))

	rec := testDeadline(mustDate(t, 2024, 4, 30))
	require.NoError(t, s.CreateLinked(ctx, doc.ID, []*types.Deadline{rec}))

	require.NoError(t, s.DeleteDocument(ctx, doc.ID))

	_, err := s.GetDocument(ctx, doc.ID)
	require.Error(t, err)

	// The extracted deadline outlives its source document.
	got, err := s.GetDeadline(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Title, got.Title)
}

func TestDeleteDeadlineRemovesLinks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	require.NoError(t, s.CreateDocument(ctx, doc))

	rec := testDeadline(mustDate(t, 2024, 4, 30))
	require.NoError(t, s.CreateLinked(ctx, doc.ID, []*types.Deadline{rec}))

	require.NoError(t, s.DeleteDeadline(ctx, rec.ID))

	ids, err := s.LinkedDeadlineIDs(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
