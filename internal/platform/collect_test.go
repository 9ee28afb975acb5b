package platform

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobbyResume/internal/errcode"
)

type stubSource struct {
	paths    []ResumePath
	info     *BasicInfo
	certs    []string
	jobs     *Jobs
	certsErr error
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *stubSource) track() func() {
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return func() { s.inFlight.Add(-1) }
}

func (s *stubSource) ResumePaths(context.Context, int64) ([]ResumePath, error) {
	return s.paths, nil
}

func (s *stubSource) BasicInfo(context.Context, int64) (*BasicInfo, error) {
	defer s.track()()
	return s.info, nil
}

func (s *stubSource) Certifications(context.Context, int64) ([]string, error) {
	defer s.track()()
	return s.certs, s.certsErr
}

func (s *stubSource) JobsDone(context.Context, int64) (*Jobs, error) {
	defer s.track()()
	return s.jobs, nil
}

func TestCollectRunsReadsConcurrently(t *testing.T) {
	src := &stubSource{
		info:  &BasicInfo{FirstName: "Ann", LastName: "Rossi"},
		certs: []string{"AWS"},
		jobs:  &Jobs{Total: 2},
	}

	data, err := NewCollector(src, nil).Collect(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, []string{"AWS"}, data.Certifications)
	require.Equal(t, "Ann Rossi", data.BasicInfo.FullName())
	require.Equal(t, 2, data.Jobs.Total)
	require.Greater(t, src.peak.Load(), int32(1))
}

func TestCollectKeepsMissingSectionsNil(t *testing.T) {
	data, err := NewCollector(&stubSource{}, nil).Collect(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, data.BasicInfo)
	require.Nil(t, data.Jobs)
	require.Nil(t, data.Certifications)
}

func TestCollectFailsWhenAnyReadFails(t *testing.T) {
	src := &stubSource{certsErr: errors.New("mysql gone away")}
	_, err := NewCollector(src, nil).Collect(context.Background(), 7)
	require.ErrorContains(t, err, "mysql gone away")
}

func TestResumePath(t *testing.T) {
	c := NewCollector(&stubSource{paths: []ResumePath{{CandidateID: 42, ResumePath: "r/1.pdf"}}}, nil)
	path, err := c.ResumePath(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "r/1.pdf", path)

	_, err = NewCollector(&stubSource{}, nil).ResumePath(context.Background(), 42)
	require.Equal(t, errcode.KindNotFound, errcode.KindOf(err))

	_, err = NewCollector(&stubSource{paths: []ResumePath{{CandidateID: 42}}}, nil).ResumePath(context.Background(), 42)
	require.Equal(t, errcode.KindNotFound, errcode.KindOf(err))
}

func TestDecodeJobs(t *testing.T) {
	jobs, err := decodeJobs(sql.NullString{})
	require.NoError(t, err)
	require.Nil(t, jobs)

	jobs, err = decodeJobs(sql.NullString{Valid: true, String: `{"total":0,"categories":null,"job_titles":null,"last_job_done":null}`})
	require.NoError(t, err)
	require.Nil(t, jobs)

	jobs, err = decodeJobs(sql.NullString{Valid: true, String: `{"total":3,"categories":[{"category":"Catering","count":3}],"job_titles":null,"last_job_done":"2024-05-01 09:00:00.000000"}`})
	require.NoError(t, err)
	require.Equal(t, 3, jobs.Total)
	require.Equal(t, "Catering", jobs.Categories[0].Category)
	require.NotNil(t, jobs.JobTitles)

	_, err = decodeJobs(sql.NullString{Valid: true, String: "{"})
	require.Error(t, err)
}

func TestDataEmpty(t *testing.T) {
	var nilData *Data
	require.True(t, nilData.Empty())
	require.True(t, (&Data{}).Empty())
	require.False(t, (&Data{Certifications: []string{"AWS"}}).Empty())
	require.False(t, (&Data{BasicInfo: &BasicInfo{}}).Empty())
}
