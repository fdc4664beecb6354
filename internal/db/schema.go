package db

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS platforms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	screenscraper_id INTEGER,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_type TEXT NOT NULL,
	name TEXT NOT NULL,
	root_path TEXT NOT NULL DEFAULT '',
	last_synced_at TEXT
);`,

	`CREATE TABLE IF NOT EXISTS roms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	platform_id INTEGER NOT NULL REFERENCES platforms(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	file_name TEXT NOT NULL,
	file_size INTEGER,
	regions TEXT NOT NULL DEFAULT '[]',
	hash_crc32 TEXT,
	hash_md5 TEXT,
	hash_sha1 TEXT,
	verification_status TEXT,
	dat_entry_id INTEGER,
	dat_game_name TEXT,
	metadata_fetched_at TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_roms_platform_md5 ON roms(platform_id, hash_md5);`,
	`CREATE INDEX IF NOT EXISTS idx_roms_platform_file ON roms(platform_id, file_name);`,

	`CREATE TABLE IF NOT EXISTS source_roms (
	rom_id INTEGER NOT NULL REFERENCES roms(id) ON DELETE CASCADE,
	source_id INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
	source_rom_id TEXT,
	source_url TEXT,
	file_name TEXT,
	hash_md5 TEXT,
	PRIMARY KEY (rom_id, source_id)
);`,

	`CREATE TABLE IF NOT EXISTS dat_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	version TEXT,
	dat_type TEXT NOT NULL,
	platform_slug TEXT NOT NULL,
	entry_count INTEGER NOT NULL,
	imported_at TEXT NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS dat_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dat_file_id INTEGER NOT NULL REFERENCES dat_files(id) ON DELETE CASCADE,
	game_name TEXT NOT NULL,
	rom_name TEXT NOT NULL,
	size INTEGER,
	crc32 TEXT,
	md5 TEXT,
	sha1 TEXT,
	status TEXT
);`,
	`CREATE INDEX IF NOT EXISTS idx_dat_entries_sha1 ON dat_entries(sha1);`,
	`CREATE INDEX IF NOT EXISTS idx_dat_entries_md5 ON dat_entries(md5);`,
	`CREATE INDEX IF NOT EXISTS idx_dat_entries_crc32 ON dat_entries(crc32);`,

	`CREATE TABLE IF NOT EXISTS metadata (
	rom_id INTEGER PRIMARY KEY REFERENCES roms(id) ON DELETE CASCADE,
	description TEXT,
	developer TEXT,
	publisher TEXT,
	genres TEXT NOT NULL DEFAULT '[]',
	themes TEXT NOT NULL DEFAULT '[]',
	rating REAL,
	release_date TEXT,
	cover_url TEXT,
	ra_game_id TEXT
);`,

	`CREATE TABLE IF NOT EXISTS artwork (
	rom_id INTEGER NOT NULL REFERENCES roms(id) ON DELETE CASCADE,
	art_type TEXT NOT NULL,
	url TEXT NOT NULL,
	mirror_url TEXT,
	PRIMARY KEY (rom_id, art_type, url)
);`,

	`CREATE TABLE IF NOT EXISTS library (
	rom_id INTEGER PRIMARY KEY REFERENCES roms(id) ON DELETE CASCADE,
	favorite INTEGER NOT NULL DEFAULT 0,
	play_count INTEGER NOT NULL DEFAULT 0,
	last_played_at TEXT
);`,

	`CREATE TABLE IF NOT EXISTS hasheous_cache (
	rom_id INTEGER PRIMARY KEY REFERENCES roms(id) ON DELETE CASCADE,
	raw_response TEXT,
	name TEXT,
	publisher TEXT,
	year TEXT,
	description TEXT,
	genres TEXT,
	igdb_id TEXT,
	tgdb_id TEXT,
	ra_id TEXT,
	wikipedia_url TEXT,
	platform_igdb_id TEXT,
	platform_ra_id TEXT,
	fetched_at TEXT NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS igdb_cache (
	rom_id INTEGER PRIMARY KEY REFERENCES roms(id) ON DELETE CASCADE,
	igdb_id INTEGER,
	raw_response TEXT,
	fetched_at TEXT NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS screenscraper_cache (
	rom_id INTEGER PRIMARY KEY REFERENCES roms(id) ON DELETE CASCADE,
	raw_response TEXT,
	fetched_at TEXT NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS file_hash_cache (
	location TEXT PRIMARY KEY,
	file_modtime INTEGER NOT NULL,
	hash TEXT NOT NULL
);`,

	`CREATE TABLE IF NOT EXISTS launchbox_games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	database_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	platform TEXT NOT NULL,
	description TEXT,
	developer TEXT,
	publisher TEXT,
	genres TEXT NOT NULL DEFAULT '[]',
	release_date TEXT,
	community_rating REAL
);`,
	`CREATE INDEX IF NOT EXISTS idx_launchbox_games_lookup ON launchbox_games(normalized_name, platform);`,

	`CREATE TABLE IF NOT EXISTS launchbox_images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	database_id INTEGER NOT NULL,
	file_name TEXT NOT NULL,
	image_type TEXT NOT NULL,
	region TEXT
);`,
	`CREATE INDEX IF NOT EXISTS idx_launchbox_images_db ON launchbox_images(database_id);`,
}
