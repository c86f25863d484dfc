// Package backup reads & writes planner snapshots as JSON or YAML documents.
package backup

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/studyplan/core/planner"
)

// Version of the document layout written by Encode.
const Version = "1.0"

// DefaultFileName is the name suggested for exported backups.
const DefaultFileName = "student-data-backup.json"

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

var (
	errUnknownFormat      = errors.New("unknown backup format")
	errUnsupportedVersion = errors.New("unsupported backup version")

	NowFunc = time.Now // mockable
)

// Document is the exported form of a planner snapshot.
type Document struct {
	Version     string                  `json:"version"`
	ExportDate  time.Time               `json:"exportDate"`
	Courses     []planner.Course        `json:"courses"`
	Grades      []planner.Grade         `json:"grades"`
	Assignments []planner.Assignment    `json:"assignments"`
	Schedule    []planner.ScheduleEntry `json:"schedule"`
	Reminders   []planner.Reminder      `json:"reminders"`
	Profile     *planner.Profile        `json:"profile,omitempty"`
}

// NewDocument wraps snap into a Document dated now.
func NewDocument(snap planner.Snapshot) Document {
	doc := Document{
		Version:     Version,
		ExportDate:  NowFunc().UTC(),
		Courses:     snap.Courses,
		Grades:      snap.Grades,
		Assignments: snap.Assignments,
		Schedule:    snap.Schedule,
		Reminders:   snap.Reminders,
		Profile:     snap.Profile,
	}
	doc.normalize()
	return doc
}

// Snapshot returns the collections held by the document.
func (doc Document) Snapshot() planner.Snapshot {
	doc.normalize()
	return planner.Snapshot{
		Courses:     doc.Courses,
		Grades:      doc.Grades,
		Assignments: doc.Assignments,
		Schedule:    doc.Schedule,
		Reminders:   doc.Reminders,
		Profile:     doc.Profile,
	}
}

// normalize replaces nil collections with empty ones, so they encode as [].
func (doc *Document) normalize() {
	if doc.Courses == nil {
		doc.Courses = []planner.Course{}
	}
	if doc.Grades == nil {
		doc.Grades = []planner.Grade{}
	}
	if doc.Assignments == nil {
		doc.Assignments = []planner.Assignment{}
	}
	if doc.Schedule == nil {
		doc.Schedule = []planner.ScheduleEntry{}
	}
	if doc.Reminders == nil {
		doc.Reminders = []planner.Reminder{}
	}
}

// ParseFormat parses a format name; the empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", errors.Wrapf(errUnknownFormat, "%q", s)
}

// FormatFromPath guesses the format of a file from its extension; JSON unless .yaml or .yml.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// ContentType returns the MIME type of documents in the given format.
func (f Format) ContentType() string {
	if f == YAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	doc.normalize()
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "encoding json")
	case YAML:
		// null.* values only know JSON; convert through a generic tree
		tree, err := toTree(doc)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(tree); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	}
	return errors.Wrapf(errUnknownFormat, "%q", format)
}

// Decode reads a document in the given format from r.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errors.Wrap(err, "decoding json")
		}
	case YAML:
		var tree interface{}
		if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
			return Document{}, errors.Wrap(err, "decoding yaml")
		}
		if err := fromTree(tree, &doc); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, errors.Wrapf(errUnknownFormat, "%q", format)
	}

	if doc.Version != "" && !strings.HasPrefix(doc.Version, "1.") {
		return Document{}, errors.Wrapf(errUnsupportedVersion, "%q", doc.Version)
	}
	doc.normalize()
	return doc, nil
}

func toTree(doc Document) (interface{}, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding json")
	}
	var tree interface{}
	if err = json.Unmarshal(b, &tree); err != nil {
		return nil, errors.Wrap(err, "decoding json")
	}
	return tree, nil
}

func fromTree(tree interface{}, doc *Document) error {
	b, err := json.Marshal(tree)
	if err != nil {
		return errors.Wrap(err, "encoding json")
	}
	return errors.Wrap(json.Unmarshal(b, doc), "decoding json")
}

// WriteFile atomically writes snap to path, in the format matching its extension.
func WriteFile(path string, snap planner.Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, NewDocument(snap), FormatFromPath(path)); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "renaming temp file")
}

// ReadFile reads the snapshot stored at path, in the format matching its extension.
func ReadFile(path string) (planner.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return planner.Snapshot{}, errors.Wrap(err, "opening backup")
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return planner.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}
