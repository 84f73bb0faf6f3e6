package main

import (
	"context"
	_ "embed"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"atrium/internal/config"
	"atrium/internal/domain/models"
	contentModels "atrium/internal/domain/models/content"
	contentRepo "atrium/internal/domain/repositories/content"
	contentSvc "atrium/internal/domain/services/content"
	"atrium/internal/repository/postgres"
	pgcontent "atrium/internal/repository/postgres/content"
	"atrium/internal/rooms"
	"atrium/internal/service/access"
	svccontent "atrium/internal/service/content"
	"atrium/internal/tasks"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed fixtures (for use with shell scripts)")
	clearData := flag.Bool("clear-data", false, "Clear all folders, notes and files (keep schema)")
	fixturePath := flag.String("fixture", "", "Path to a fixture YAML file (default: embedded fixtures)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger, optionally teeing into a timestamped log file
	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: level,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing folders, notes and files...")
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Load fixture
	fx, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	// Build the room directory from the fixture
	directory := rooms.NewStaticDirectory()
	for _, room := range fx.Rooms {
		directory.AddRoom(models.Room{ID: room.ID, AdminID: room.AdminID, IsPublic: room.IsPublic})
		for _, m := range room.Members {
			directory.AddMember(room.ID, m.UserID, models.Role(m.Role))
		}
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := pgcontent.NewFolderRepository(repoConfig)
	noteRepo := pgcontent.NewNoteRepository(repoConfig)
	fileRepo := pgcontent.NewFileRepository(repoConfig, tasks.Discard{}, nil)

	txManager := postgres.NewTransactionManager(pool)

	evaluator := access.NewEvaluator(directory, logger)
	folderService := svccontent.NewFolderService(
		folderRepo,
		[]contentRepo.LeafAdapter{noteRepo, fileRepo},
		evaluator,
		txManager,
		logger,
	)

	// Clear existing data so reseeding is idempotent
	log.Println("⚠️  Clearing existing folders, notes and files...")
	if err := clearAllData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("📝 Seeding folder trees...")
	seeder := &seeder{
		folders: folderService,
		notes:   noteRepo,
		files:   fileRepo,
	}

	for _, room := range fx.Rooms {
		for _, folder := range room.Folders {
			seeder.seedRoomFolder(ctx, room, folder, nil)
		}
	}
	for _, space := range fx.Personal {
		for _, folder := range space.Folders {
			seeder.seedNotesFolder(ctx, space.OwnerID, folder, nil)
		}
	}

	log.Printf("🎉 Seeding complete! (%d folders, %d notes, %d files)",
		seeder.folderCount, seeder.noteCount, seeder.fileCount)
}

// fixture is the YAML shape of a seed data set
type fixture struct {
	Rooms    []fixtureRoom     `yaml:"rooms"`
	Personal []fixturePersonal `yaml:"personal"`
}

type fixtureRoom struct {
	ID       string          `yaml:"id"`
	AdminID  string          `yaml:"admin_id"`
	IsPublic bool            `yaml:"is_public"`
	Members  []fixtureMember `yaml:"members"`
	Folders  []fixtureFolder `yaml:"folders"`
}

type fixtureMember struct {
	UserID string `yaml:"user_id"`
	Role   string `yaml:"role"`
}

type fixturePersonal struct {
	OwnerID string          `yaml:"owner_id"`
	Folders []fixtureFolder `yaml:"folders"`
}

type fixtureFolder struct {
	Name     string          `yaml:"name"`
	Children []fixtureFolder `yaml:"children"`
	Notes    []fixtureNote   `yaml:"notes"`
	Files    []fixtureFile   `yaml:"files"`
}

type fixtureNote struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type fixtureFile struct {
	Name      string `yaml:"name"`
	SizeBytes int64  `yaml:"size_bytes"`
	MimeType  string `yaml:"mime_type"`
}

func loadFixture(path string) (*fixture, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

type seeder struct {
	folders contentSvc.FolderService
	notes   contentRepo.NoteRepository
	files   contentRepo.FileRepository

	folderCount int
	noteCount   int
	fileCount   int
}

// seedRoomFolder creates a room folder subtree, acting as the room admin
func (s *seeder) seedRoomFolder(ctx context.Context, room fixtureRoom, f fixtureFolder, parentID *string) {
	folder, err := s.folders.CreateRoomFolder(ctx, &contentSvc.CreateRoomFolderRequest{
		ActorID:  room.AdminID,
		RoomID:   room.ID,
		Name:     f.Name,
		ParentID: parentID,
	})
	if err != nil {
		log.Printf("❌ Failed to create room folder '%s': %v", f.Name, err)
		return
	}
	s.folderCount++
	log.Printf("✅ Created room folder: %s (ID: %s)", folder.Name, folder.ID)

	s.seedLeaves(ctx, folder, room.AdminID, f)
	for _, child := range f.Children {
		s.seedRoomFolder(ctx, room, child, &folder.ID)
	}
}

// seedNotesFolder creates a personal folder subtree for its owner
func (s *seeder) seedNotesFolder(ctx context.Context, ownerID string, f fixtureFolder, parentID *string) {
	folder, err := s.folders.CreateNotesFolder(ctx, &contentSvc.CreateNotesFolderRequest{
		ActorID:  ownerID,
		Name:     f.Name,
		ParentID: parentID,
	})
	if err != nil {
		log.Printf("❌ Failed to create notes folder '%s': %v", f.Name, err)
		return
	}
	s.folderCount++
	log.Printf("✅ Created notes folder: %s (ID: %s)", folder.Name, folder.ID)

	s.seedLeaves(ctx, folder, ownerID, f)
	for _, child := range f.Children {
		s.seedNotesFolder(ctx, ownerID, child, &folder.ID)
	}
}

func (s *seeder) seedLeaves(ctx context.Context, folder *contentModels.Folder, actorID string, f fixtureFolder) {
	now := time.Now()

	for _, n := range f.Notes {
		note := &contentModels.Note{
			FolderID:  &folder.ID,
			OwnerID:   actorID,
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.notes.Create(ctx, note); err != nil {
			log.Printf("❌ Failed to create note '%s': %v", n.Title, err)
			continue
		}
		s.noteCount++
	}

	for _, fl := range f.Files {
		file := &contentModels.File{
			FolderID:   &folder.ID,
			UploaderID: actorID,
			RoomID:     folder.RoomID,
			Name:       fl.Name,
			SizeBytes:  fl.SizeBytes,
			MimeType:   fl.MimeType,
			StorageKey: "seed/" + uuid.New().String(),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.files.Create(ctx, file); err != nil {
			log.Printf("❌ Failed to create file '%s': %v", fl.Name, err)
			continue
		}
		s.fileCount++
	}
}

// runSchema creates tables if they don't exist. Sibling name
// uniqueness is enforced in the service layer, so folder names carry
// plain indexes only.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create folders table
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			owner_id UUID NOT NULL,
			room_id UUID,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	// Create notes table
	createNotes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Notes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			owner_id UUID NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createNotes); err != nil {
		return err
	}

	// Create files table
	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			uploader_id UUID NOT NULL,
			room_id UUID,
			name TEXT NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			mime_type TEXT NOT NULL DEFAULT '',
			storage_key TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent ON ` + tables.Folders + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_room_level ON ` + tables.Folders + `(kind, room_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_owner_level ON ` + tables.Folders + `(kind, owner_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `notes_folder ON ` + tables.Notes + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `notes_owner_folder ON ` + tables.Notes + `(owner_id, folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_folder ON ` + tables.Files + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_room_folder ON ` + tables.Files + `(room_id, folder_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Files,
		tables.Notes,
		tables.Folders,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearAllData clears all rows, leaves first so folder deletion never
// nulls a folder_id it is about to follow
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Notes, tables.Files, tables.Folders} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
