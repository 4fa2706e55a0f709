package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"session-analytics-service/internal/cube/core/binner"
	"session-analytics-service/internal/cube/core/domain"
	"session-analytics-service/internal/cube/core/usecase"
	sessdomain "session-analytics-service/internal/sessions/core/domain"
)

type fakeSessionReader struct {
	ListFn func(ctx context.Context) ([]sessdomain.Session, error)
	called bool
}

func (f *fakeSessionReader) ListSessions(ctx context.Context) ([]sessdomain.Session, error) {
	f.called = true
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func session(sid string, seconds uint64, counters map[string]uint64) sessdomain.Session {
	return sessdomain.Session{
		SID:             sid,
		GID:             "CID:" + sid,
		NumberOfSeconds: seconds,
		Counters:        counters,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", usecase.FormatTSV, false},
		{"tsv", usecase.FormatTSV, false},
		{"json", usecase.FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := usecase.ValidateFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, usecase.ErrInvalidFormat) {
				t.Fatalf("format %q: expected ErrInvalidFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("format %q: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("format %q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestBuild_DevicesAndCounters(t *testing.T) {
	sessions := []sessdomain.Session{
		session("s1", 3, map[string]uint64{
			"iOSDeviceInfo:iPhone9,1": 1,
			"iOSAppLaunchEvent":       1,
			"tap":                     2,
		}),
		session("s2", 45, map[string]uint64{
			"iOSDeviceInfo:iPad": 1,
		}),
	}

	cube := usecase.Build(sessions, binner.New(0, 0, 0))

	if len(cube.Space.Dimensions) != 3 {
		t.Fatalf("expected 3 dimensions, got %d: %+v", len(cube.Space.Dimensions), cube.Space.Dimensions)
	}
	if cube.Space.DimensionByName("iOSAppLaunchEvent") != nil {
		t.Fatalf("app launch counter must not become a dimension")
	}

	var buf bytes.Buffer
	if err := cube.WriteTSV(&buf); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	want := "FEATURE|Session length (seconds)|< 5|5 - 9|10 - 14|15 - 29|30 - 59|60 - 119|120 - 300|> 300" +
		"\tFEATURE|Device|Not set|iPad|iPhone9,1" +
		"\tFEATURE|tap|Not set|2" +
		"\tTOTAL|2\n" +
		"< 5\tiPhone9,1\t2\t1\n" +
		"30 - 59\tiPad\tNot set\t1\n"
	if buf.String() != want {
		t.Fatalf("unexpected TSV:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestBuild_EveryRowHasOneCellPerDimension(t *testing.T) {
	var sessions []sessdomain.Session
	for v := uint64(1); v <= 9; v++ {
		for i := 0; i < 5; i++ {
			sid := string(rune('a'+v)) + string(rune('a'+i))
			sessions = append(sessions, session(sid, v*7, map[string]uint64{"CTFO": v}))
		}
	}
	sessions = append(sessions, session("nocounter", 1, map[string]uint64{}))

	cube := usecase.Build(sessions, binner.New(8, 30, 8))

	if len(cube.Rows) != len(sessions) {
		t.Fatalf("expected %d rows, got %d", len(sessions), len(cube.Rows))
	}
	dim := cube.Space.DimensionByName("CTFO")
	if dim == nil {
		t.Fatalf("expected CTFO dimension")
	}
	if dim.Bins[0].Name != domain.NotSetBinName {
		t.Fatalf("expected leading Not set bin, got %q", dim.Bins[0].Name)
	}
	if last := dim.Bins[len(dim.Bins)-1]; last.Range != domain.RangeGreater {
		t.Fatalf("expected open ended last bin, got %+v", last)
	}

	col := -1
	for i, d := range cube.Space.Dimensions {
		if d.Name == "CTFO" {
			col = i
		}
	}
	for _, r := range cube.Rows {
		if len(r.Cells) != len(cube.Space.Dimensions) {
			t.Fatalf("row %s: expected %d cells, got %d", r.SessionID, len(cube.Space.Dimensions), len(r.Cells))
		}
		if r.SessionID == "nocounter" {
			if r.Cells[col] != domain.NotSetBinName {
				t.Fatalf("expected Not set for a session without the counter, got %q", r.Cells[col])
			}
			continue
		}
		if r.Cells[col] == domain.NotSetBinName {
			t.Fatalf("row %s: counted value fell outside every bin", r.SessionID)
		}
	}
}

func TestBuild_CounterNamedLikeDeviceDimension(t *testing.T) {
	sessions := []sessdomain.Session{
		session("s1", 10, map[string]uint64{"Device": 4, "iOSDeviceInfo:iPad": 1}),
	}

	cube := usecase.Build(sessions, binner.New(0, 0, 0))

	if len(cube.Space.Dimensions) != 2 {
		t.Fatalf("expected time and device dimensions only, got %+v", cube.Space.Dimensions)
	}
	if got := cube.Rows[0].Cells[1]; got != "iPad" {
		t.Fatalf("expected device cell iPad, got %q", got)
	}
}

func TestBuild_CounterNamedLikeTimeDimension(t *testing.T) {
	sessions := []sessdomain.Session{
		session("s1", 3, map[string]uint64{domain.TimeDimensionName: 400, "tap": 1}),
	}

	cube := usecase.Build(sessions, binner.New(0, 0, 0))

	if got := cube.Sessions[0].FeatureCount[domain.TimeDimensionName]; got != 3 {
		t.Fatalf("expected session length 3, got %d", got)
	}
	if got := cube.Rows[0].Cells[0]; got != "< 5" {
		t.Fatalf("expected length cell < 5, got %q", got)
	}
}

func TestBuild_NoSessions(t *testing.T) {
	cube := usecase.Build(nil, binner.New(0, 0, 0))

	if len(cube.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(cube.Rows))
	}
	if len(cube.Space.Dimensions) != 2 {
		t.Fatalf("expected the two fixed dimensions, got %d", len(cube.Space.Dimensions))
	}
}

func TestExportCube_Execute(t *testing.T) {
	reader := &fakeSessionReader{
		ListFn: func(ctx context.Context) ([]sessdomain.Session, error) {
			return []sessdomain.Session{session("s1", 120, map[string]uint64{"tap": 1})}, nil
		},
	}
	uc := usecase.NewExportCubeUseCase(reader, binner.New(0, 0, 0), nil)

	cube, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reader.called {
		t.Fatalf("expected ListSessions to be called")
	}
	if got := cube.Rows[0].Cells[0]; got != "120 - 300" {
		t.Fatalf("expected 120 - 300, got %q", got)
	}
}

func TestExportCube_ReaderError(t *testing.T) {
	reader := &fakeSessionReader{
		ListFn: func(ctx context.Context) ([]sessdomain.Session, error) {
			return nil, errors.New("db failure")
		},
	}
	uc := usecase.NewExportCubeUseCase(reader, binner.New(0, 0, 0), nil)

	cube, err := uc.Execute(context.Background())
	if err == nil || err.Error() != "db failure" {
		t.Fatalf("expected db failure, got %v", err)
	}
	if cube != nil {
		t.Fatalf("expected nil cube on error")
	}
}
