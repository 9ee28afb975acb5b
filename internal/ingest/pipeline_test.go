package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"jobbyResume/internal/candidate"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/platform"
)

type fakePlatform struct {
	path     string
	pathErr  error
	data     *platform.Data
	collects int
}

func (f *fakePlatform) ResumePath(context.Context, int64) (string, error) {
	return f.path, f.pathErr
}

func (f *fakePlatform) Collect(context.Context, int64) (*platform.Data, error) {
	f.collects++
	return f.data, nil
}

type fakeStore struct {
	local string
	found bool
	err   error
	calls int
}

func (f *fakeStore) FetchResume(context.Context, string) (string, bool, error) {
	f.calls++
	return f.local, f.found, f.err
}

type fakeExtractor struct {
	texts []string
}

func (f *fakeExtractor) Extract(_ context.Context, text string, _ *genai.Schema, _ string) (json.RawMessage, error) {
	f.texts = append(f.texts, text)
	return json.RawMessage(`{"name":"Ann","skills":["Go"]}`), nil
}

type fakeReconciler struct {
	existing *candidate.Profile
	inputs   []candidate.ReconcileInput
}

func (f *fakeReconciler) Reconcile(_ context.Context, in candidate.ReconcileInput) (*candidate.Profile, error) {
	f.inputs = append(f.inputs, in)
	return &candidate.Profile{Success: true, CandidateID: in.ExternalUserID, ResumeID: 1}, nil
}

func (f *fakeReconciler) Lookup(context.Context, string) (*candidate.Profile, error) {
	if f.existing == nil {
		return nil, errcode.NotFound("Resume not found")
	}
	return f.existing, nil
}

type failingScanner struct{}

func (failingScanner) ScanFile(string) error {
	return errcode.New(errcode.KindMaliciousFile, "malicious file detected: Eicar-Test-Signature")
}

func writeResume(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestProcessRunsFullPipeline(t *testing.T) {
	plat := &fakePlatform{path: "r/1.txt", data: &platform.Data{Certifications: []string{"AWS"}}}
	store := &fakeStore{local: writeResume(t, "1.txt", "Ann\nGo developer"), found: true}
	ex := &fakeExtractor{}
	rec := &fakeReconciler{}

	profile, err := NewPipeline(plat, store, nil, ex, rec, nil).Process(context.Background(), Request{CandidateID: 42, Blended: true})
	require.NoError(t, err)
	require.Equal(t, int64(42), profile.CandidateID)

	require.Equal(t, []string{"Ann\nGo developer"}, ex.texts)
	require.Len(t, rec.inputs, 1)
	in := rec.inputs[0]
	require.Equal(t, "r/1.txt", in.ResumePath)
	require.Equal(t, "Ann", in.Resume.Name)
	require.Equal(t, []string{"AWS"}, in.Platform.Certifications)
	require.Equal(t, "Ann\nGo developer", in.ResumeText)
	require.True(t, in.Blended)
}

func TestProcessShortCircuitsExistingRecord(t *testing.T) {
	existing := &candidate.Profile{Success: true, ResumeID: 9}
	store := &fakeStore{}
	rec := &fakeReconciler{existing: existing}
	p := NewPipeline(&fakePlatform{path: "r/1.pdf"}, store, nil, &fakeExtractor{}, rec, nil)

	profile, err := p.Process(context.Background(), Request{CandidateID: 1})
	require.NoError(t, err)
	require.Same(t, existing, profile)
	require.Zero(t, store.calls)
}

func TestProcessReprocessIgnoresExistingRecord(t *testing.T) {
	store := &fakeStore{local: writeResume(t, "1.txt", "text"), found: true}
	rec := &fakeReconciler{existing: &candidate.Profile{ResumeID: 9}}
	plat := &fakePlatform{path: "r/1.txt", data: &platform.Data{Certifications: []string{"x"}}}

	_, err := NewPipeline(plat, store, nil, &fakeExtractor{}, rec, nil).Process(context.Background(), Request{CandidateID: 1, Reprocess: true})
	require.NoError(t, err)
	require.Equal(t, 1, store.calls)
	require.Len(t, rec.inputs, 1)
}

func TestProcessFailures(t *testing.T) {
	txt := writeResume(t, "1.txt", "text")
	png := writeResume(t, "1.png", "not a resume")
	empty := writeResume(t, "2.txt", "   ")

	cases := []struct {
		name     string
		platform *fakePlatform
		store    *fakeStore
		scanner  failingScanner
		scan     bool
		req      Request
		want     errcode.Kind
	}{
		{name: "bad id", platform: &fakePlatform{}, store: &fakeStore{}, req: Request{}, want: errcode.KindInvalidInput},
		{name: "no resume path", platform: &fakePlatform{pathErr: errcode.NotFound("Resume path not found for the candidate")}, store: &fakeStore{}, req: Request{CandidateID: 1}, want: errcode.KindNotFound},
		{name: "object missing", platform: &fakePlatform{path: "r/1.pdf"}, store: &fakeStore{found: false}, req: Request{CandidateID: 1}, want: errcode.KindNotFound},
		{name: "unsupported", platform: &fakePlatform{path: "r/1.png"}, store: &fakeStore{local: png, found: true}, req: Request{CandidateID: 1}, want: errcode.KindUnsupportedFile},
		{name: "malicious", platform: &fakePlatform{path: "r/1.txt"}, store: &fakeStore{local: txt, found: true}, scan: true, req: Request{CandidateID: 1}, want: errcode.KindMaliciousFile},
		{name: "empty text", platform: &fakePlatform{path: "r/2.txt"}, store: &fakeStore{local: empty, found: true}, req: Request{CandidateID: 1}, want: errcode.KindExtraction},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(tc.platform, tc.store, nil, &fakeExtractor{}, &fakeReconciler{}, nil)
			if tc.scan {
				p = NewPipeline(tc.platform, tc.store, tc.scanner, &fakeExtractor{}, &fakeReconciler{}, nil)
			}
			_, err := p.Process(context.Background(), tc.req)
			require.Equal(t, tc.want, errcode.KindOf(err))
			require.Zero(t, tc.platform.collects)
		})
	}
}

func TestProcessStorageError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	_, err := NewPipeline(&fakePlatform{path: "r/1.pdf"}, store, nil, &fakeExtractor{}, &fakeReconciler{}, nil).
		Process(context.Background(), Request{CandidateID: 1})
	require.ErrorContains(t, err, "connection reset")
}
