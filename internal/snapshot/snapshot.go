// Package snapshot implements the Serialization component (spec §4.7): a
// portable, self-describing JSON form of a Document Collection, plus
// pluggable stores for persisting that blob somewhere durable (spec §6's
// "persistence format on disk beyond the serialization contract" is out of
// scope for the core itself, but the portable blob needs a home).
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manifold-docs/corpusd/internal/docstore"
)

// Snapshot is the top-level self-describing form: one key, "documents",
// mapping id to the document's id/metadata/versions (spec §6 persisted
// state layout). Field names are normative.
type Snapshot struct {
	Documents map[string]DocumentRecord `json:"documents"`
}

// DocumentRecord is one entry under "documents".
type DocumentRecord struct {
	ID       string          `json:"id"`
	Metadata MetadataRecord  `json:"metadata"`
	Versions []VersionRecord `json:"versions"`
}

// MetadataRecord mirrors docstore.Metadata's field layout (spec §6).
type MetadataRecord struct {
	Source           string         `json:"source"`
	URL              string         `json:"url"`
	Title            string         `json:"title"`
	Timestamp        string         `json:"timestamp"`
	Tags             []string       `json:"tags"`
	CustomAttributes map[string]any `json:"custom_attributes"`
}

// VersionRecord mirrors docstore.Version's field layout (spec §6).
type VersionRecord struct {
	Content       map[string]any `json:"content"`
	VersionNumber int            `json:"version_number"`
	Timestamp     string         `json:"timestamp"`
}

// Marshal converts a list of documents (typically Organizer.All()) into the
// portable self-describing form and serializes it to JSON.
func Marshal(docs []docstore.Document) ([]byte, error) {
	snap := Snapshot{Documents: make(map[string]DocumentRecord, len(docs))}
	for _, d := range docs {
		versions := make([]VersionRecord, len(d.Versions))
		for i, v := range d.Versions {
			versions[i] = VersionRecord{
				Content:       v.Content,
				VersionNumber: v.VersionNumber,
				Timestamp:     v.Timestamp.UTC().Format(time.RFC3339Nano),
			}
		}
		snap.Documents[d.ID.String()] = DocumentRecord{
			ID: d.ID.String(),
			Metadata: MetadataRecord{
				Source:           d.Metadata.Source,
				URL:              d.Metadata.URL,
				Title:            d.Metadata.Title,
				Timestamp:        d.Metadata.Timestamp.UTC().Format(time.RFC3339Nano),
				Tags:             d.Metadata.Tags,
				CustomAttributes: d.Metadata.CustomAttributes,
			},
			Versions: versions,
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal parses the portable JSON form back into Documents, ready to be
// fed one-by-one through Organizer.Restore — §4.7's "replay through the
// ingest path with create-new disabled, preserving ids".
func Unmarshal(data []byte) ([]docstore.Document, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}

	docs := make([]docstore.Document, 0, len(snap.Documents))
	for key, rec := range snap.Documents {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			id, err = uuid.Parse(key)
			if err != nil {
				return nil, fmt.Errorf("snapshot: document %q: invalid id: %w", key, err)
			}
		}
		ts, err := parseTime(rec.Metadata.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("snapshot: document %s: metadata timestamp: %w", rec.ID, err)
		}
		versions := make([]docstore.Version, len(rec.Versions))
		for i, v := range rec.Versions {
			vts, err := parseTime(v.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("snapshot: document %s: version %d timestamp: %w", rec.ID, v.VersionNumber, err)
			}
			versions[i] = docstore.Version{
				Content:       v.Content,
				VersionNumber: v.VersionNumber,
				Timestamp:     vts,
			}
		}
		docs = append(docs, docstore.Document{
			ID: id,
			Metadata: docstore.Metadata{
				Source:           rec.Metadata.Source,
				URL:              rec.Metadata.URL,
				Title:            rec.Metadata.Title,
				Timestamp:        ts,
				Tags:             rec.Metadata.Tags,
				CustomAttributes: rec.Metadata.CustomAttributes,
			},
			Versions: versions,
		})
	}
	return docs, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
