package store

import (
	"testing"
)

// seedStatsData stores two tracks (one without audio features) and a
// handful of plays at known hours.
func seedStatsData(t *testing.T, s *Store) {
	t.Helper()
	saveTestEntities(t, s)

	track := &Track{ID: "trk2", Name: "Fitter Happier", DurationMs: 117000, AlbumID: "alb1", ArtistIDs: []string{"art1"}}
	if err := s.SaveTrack(track); err != nil {
		t.Fatalf("SaveTrack: %v", err)
	}

	// Local instants: ms 0 is 1970-01-01 02:00 local (+2h) in testPlay.
	plays := []struct {
		ms    int64
		track string
	}{
		{0, "trk1"},                // hour 2
		{1000, "trk1"},             // hour 2
		{3 * 3600 * 1000, "trk2"},  // hour 5
		{25 * 3600 * 1000, "trk1"}, // next day, hour 3
	}
	for _, p := range plays {
		play := testPlay("testuser", p.ms, p.track)
		if err := s.SavePlay(play); err != nil {
			t.Fatalf("SavePlay(%d): %v", p.ms, err)
		}
	}
}

func TestCountPerTrack(t *testing.T) {
	s := createTestDb(t)
	seedStatsData(t, s)

	counts, err := s.CountPerTrack("testuser", 0, 1<<62)
	if err != nil {
		t.Fatalf("CountPerTrack: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("len = %d, want 2", len(counts))
	}
	// Descending by count.
	if counts[0].ID != "trk1" || counts[0].Count != 3 {
		t.Errorf("counts[0] = %+v, want trk1 x3", counts[0])
	}
	if counts[1].ID != "trk2" || counts[1].Count != 1 {
		t.Errorf("counts[1] = %+v, want trk2 x1", counts[1])
	}
}

func TestCountPerArtistAndAlbum(t *testing.T) {
	s := createTestDb(t)
	seedStatsData(t, s)

	artists, err := s.CountPerArtist("testuser", 0, 1<<62)
	if err != nil {
		t.Fatalf("CountPerArtist: %v", err)
	}
	if len(artists) != 1 || artists[0].ID != "art1" || artists[0].Count != 4 {
		t.Errorf("artists = %+v, want art1 x4", artists)
	}

	albums, err := s.CountPerAlbum("testuser", 0, 1<<62)
	if err != nil {
		t.Fatalf("CountPerAlbum: %v", err)
	}
	if len(albums) != 1 || albums[0].ID != "alb1" || albums[0].Count != 4 {
		t.Errorf("albums = %+v, want alb1 x4", albums)
	}
}

func TestCountPerCalendarUnit(t *testing.T) {
	s := createTestDb(t)
	seedStatsData(t, s)

	counts, err := s.CountPerCalendarUnit("testuser", "hour", 0, 1<<62)
	if err != nil {
		t.Fatalf("CountPerCalendarUnit: %v", err)
	}
	want := []UnitCount{{Unit: 2, Count: 2}, {Unit: 3, Count: 1}, {Unit: 5, Count: 1}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}
}

func TestCountPerCalendarUnitRange(t *testing.T) {
	s := createTestDb(t)
	seedStatsData(t, s)

	// Exclude the play on the second day.
	counts, err := s.CountPerCalendarUnit("testuser", "hour", 0, 24*3600*1000)
	if err != nil {
		t.Fatalf("CountPerCalendarUnit: %v", err)
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestCountPerCalendarUnitUnknown(t *testing.T) {
	s := createTestDb(t)

	if _, err := s.CountPerCalendarUnit("testuser", "minute", 0, 1); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestAudioFeaturesPerCalendarUnit(t *testing.T) {
	s := createTestDb(t)
	seedStatsData(t, s)

	rows, err := s.AudioFeaturesPerCalendarUnit("testuser", "hour", 0, 1<<62)
	if err != nil {
		t.Fatalf("AudioFeaturesPerCalendarUnit: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}

	// Hour 2: two plays of trk1, which has features.
	if rows[0].Unit != 2 {
		t.Errorf("rows[0].Unit = %d, want 2", rows[0].Unit)
	}
	if rows[0].Averages.Tempo == nil || *rows[0].Averages.Tempo != 82.6 {
		t.Errorf("hour 2 tempo = %v, want 82.6", rows[0].Averages.Tempo)
	}

	// Hour 5: only trk2, which has no features. AVG over NULLs is NULL.
	if rows[2].Unit != 5 {
		t.Errorf("rows[2].Unit = %d, want 5", rows[2].Unit)
	}
	if rows[2].Averages.Tempo != nil {
		t.Errorf("hour 5 tempo = %v, want nil", *rows[2].Averages.Tempo)
	}
}

func TestPlayedMonthsAndPlaysInMonth(t *testing.T) {
	s := createTestDb(t)
	seedStatsData(t, s)

	months, err := s.PlayedMonths("testuser")
	if err != nil {
		t.Fatalf("PlayedMonths: %v", err)
	}
	if len(months) != 1 || months[0].Year() != 1970 || months[0].Month() != 1 {
		t.Errorf("months = %v, want [1970-01]", months)
	}

	plays, err := s.PlaysInMonth("testuser", 1970, 1)
	if err != nil {
		t.Fatalf("PlaysInMonth: %v", err)
	}
	if len(plays) != 4 {
		t.Fatalf("len = %d, want 4", len(plays))
	}
	// Oldest first.
	for i := 1; i < len(plays); i++ {
		if plays[i-1].PlayedAtMs >= plays[i].PlayedAtMs {
			t.Errorf("plays not ascending at %d: %d >= %d", i, plays[i-1].PlayedAtMs, plays[i].PlayedAtMs)
		}
	}
}
