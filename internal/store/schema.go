package store

// Entities are created once on resolution miss and never updated, so no
// update paths exist in the schema. The Play primary key is the UTC
// epoch-millisecond play instant, scoped per user.
const createTables = `
CREATE TABLE IF NOT EXISTS Artist (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image_url TEXT,
  spotify_url TEXT,
  genres TEXT,
  created_at_utc DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS Album (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image_url TEXT,
  spotify_url TEXT,
  label TEXT,
  genres TEXT,
  created_at_utc DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS AlbumArtist (
  album TEXT NOT NULL,
  artist TEXT NOT NULL,
  position INTEGER NOT NULL,
  FOREIGN KEY (album) REFERENCES Album(id),
  FOREIGN KEY (artist) REFERENCES Artist(id),
  PRIMARY KEY (album, artist)
);

CREATE TABLE IF NOT EXISTS Track (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  duration_ms INTEGER NOT NULL,
  spotify_url TEXT,
  album TEXT NOT NULL,
  tempo REAL,
  energy REAL,
  valence REAL,
  key INTEGER,
  loudness REAL,
  created_at_utc DATETIME DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (album) REFERENCES Album(id)
);

CREATE TABLE IF NOT EXISTS TrackArtist (
  track TEXT NOT NULL,
  artist TEXT NOT NULL,
  position INTEGER NOT NULL,
  FOREIGN KEY (track) REFERENCES Track(id),
  FOREIGN KEY (artist) REFERENCES Artist(id),
  PRIMARY KEY (track, artist)
);

CREATE TABLE IF NOT EXISTS Play (
  user TEXT NOT NULL,
  played_at_ms INTEGER NOT NULL,
  played_at_utc DATETIME NOT NULL,
  played_at_local DATETIME NOT NULL,
  day INTEGER NOT NULL,
  month INTEGER NOT NULL,
  year INTEGER NOT NULL,
  hour INTEGER NOT NULL,
  minute INTEGER NOT NULL,
  second INTEGER NOT NULL,
  day_of_week INTEGER NOT NULL,
  week_of_year INTEGER NOT NULL,
  track TEXT NOT NULL,
  created_at_utc DATETIME DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (track) REFERENCES Track(id),
  PRIMARY KEY (user, played_at_ms)
);

CREATE INDEX IF NOT EXISTS idx_play_track ON Play(track);
CREATE INDEX IF NOT EXISTS idx_play_user_ms ON Play(user, played_at_ms);
`
