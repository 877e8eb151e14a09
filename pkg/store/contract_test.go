package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/lagref/pkg/types"
)

func date(s string) types.Option[types.Date] {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return types.Some(d)
}

// runStoreContract exercises behaviour every Store implementation shares.
// docID must not exist in s yet.
func runStoreContract(t *testing.T, s Store, docID string) {
	ctx := context.Background()

	t.Run("documents", func(t *testing.T) {
		exists, err := s.DocumentExists(ctx, docID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = s.Document(ctx, docID)
		assert.ErrorIs(t, err, ErrNotFound)

		issued, _ := types.ParseDate("2018-04-19")
		doc := types.LegalDocument{
			ID:          docID,
			Type:        types.DocumentTypeStatute,
			Title:       "Lag med kompletterande bestämmelser",
			ShortName:   types.Some("dataskyddslagen"),
			Status:      types.StatusInForce,
			IssuedDate:  issued,
			InForceDate: date("2018-05-25"),
		}
		require.NoError(t, s.UpsertDocument(ctx, doc))

		exists, err = s.DocumentExists(ctx, docID)
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := s.Document(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, doc, got)

		doc.Status = types.StatusRepealed
		require.NoError(t, s.UpsertDocument(ctx, doc))

		status, err := s.DocumentStatus(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusRepealed, status)

		title, err := s.DocumentTitle(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, doc.Title, title)
	})

	t.Run("provisions", func(t *testing.T) {
		provisions := []types.Provision{
			{ProvisionRef: "1:1", Chapter: types.Some("1"), Section: "1", Title: types.Some("Lagens syfte"), Content: "1 § Denna lag kompletterar förordningen."},
			{ProvisionRef: "1:2", Chapter: types.Some("1"), Section: "2", Content: "2 § Lagen gäller."},
		}
		require.NoError(t, s.ReplaceProvisions(ctx, docID, provisions))

		exists, err := s.ProvisionExists(ctx, docID, "1:2")
		require.NoError(t, err)
		assert.True(t, exists)

		current, err := s.CurrentProvision(ctx, docID, "1:1")
		require.NoError(t, err)
		p, ok := current.Get()
		require.True(t, ok)
		assert.Equal(t, docID, p.DocumentID)
		assert.Equal(t, types.Some("Lagens syfte"), p.Title)

		require.NoError(t, s.ReplaceProvisions(ctx, docID, provisions[1:]))
		exists, err = s.ProvisionExists(ctx, docID, "1:1")
		require.NoError(t, err)
		assert.False(t, exists)

		all, err := s.Provisions(ctx, docID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "1:2", all[0].ProvisionRef)
	})

	t.Run("versions", func(t *testing.T) {
		firstID, err := s.AppendProvisionVersion(ctx, types.ProvisionVersion{
			DocumentID:   docID,
			ProvisionRef: "1:2",
			Content:      "Datainspektionen är tillsynsmyndighet.",
			Validity:     types.ValidityInterval{From: date("2018-05-25")},
		})
		require.NoError(t, err)

		secondID, err := s.AppendProvisionVersion(ctx, types.ProvisionVersion{
			DocumentID:   docID,
			ProvisionRef: "1:2",
			Content:      "Integritetsskyddsmyndigheten är tillsynsmyndighet.",
			Validity:     types.ValidityInterval{From: date("2021-01-01")},
		})
		require.NoError(t, err)
		assert.Greater(t, secondID, firstID)

		history, err := s.ProvisionVersions(ctx, docID, "1:2")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, date("2021-01-01"), history[0].Validity.To)
		assert.True(t, history[1].Validity.IsCurrent())

		_, err = s.AppendProvisionVersion(ctx, types.ProvisionVersion{
			DocumentID:   docID,
			ProvisionRef: "1:2",
			Content:      "överlappar",
			Validity:     types.ValidityInterval{From: date("2019-01-01")},
		})
		assert.ErrorIs(t, err, ErrOverlappingVersion)

		repealed, _ := types.ParseDate("2023-07-01")
		require.NoError(t, s.CloseProvisionVersion(ctx, docID, "1:2", repealed))
		history, err = s.ProvisionVersions(ctx, docID, "1:2")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, types.Some(repealed), history[1].Validity.To)

		// Nothing open any more.
		require.NoError(t, s.CloseProvisionVersion(ctx, docID, "1:2", repealed))
		require.NoError(t, s.CloseProvisionVersion(ctx, docID, "8:8", repealed))
	})

	t.Run("references", func(t *testing.T) {
		refs := []types.CrossReference{
			{SourceDocumentID: docID, SourceProvisionRef: types.Some("1:2"), TargetDocumentID: "2009:400", RefType: types.RefTypeReferences},
			{SourceDocumentID: docID, SourceProvisionRef: types.Some("1:2"), TargetDocumentID: docID, TargetProvisionRef: types.Some("3:5"), RefType: types.RefTypeReferences},
		}
		require.NoError(t, s.AddCrossReferences(ctx, refs))

		got, err := s.CrossReferences(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, refs, got)

		eu := []EUReferenceRecord{{
			SourceDocumentID:   docID,
			SourceProvisionRef: types.Some("1:1"),
			Reference: types.EUReference{
				Type:          types.EURegulation,
				ID:            "2016/679",
				Year:          2016,
				Number:        679,
				Community:     types.Some("EU"),
				ReferenceType: types.EURefSupplements,
				FullText:      "förordning (EU) 2016/679",
				Context:       "kompletterar förordning (EU) 2016/679",
			},
		}}
		require.NoError(t, s.AddEUReferences(ctx, eu))

		gotEU, err := s.EUReferences(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, eu, gotEU)
	})
}
