package services

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/tcg-analyzer/internal/metrics"
	"github.com/codyseavey/tcg-analyzer/internal/models"
)

const (
	pokemonDataURL    = "https://github.com/PokemonTCG/pokemon-tcg-data/archive/refs/heads/master.zip"
	pokemonDataFolder = "pokemon-tcg-data-master"
	importSource      = "pokemon-tcg-data"
	importFileWorkers = 8
)

// CardSaver persists imported card records
type CardSaver interface {
	SaveCards(ctx context.Context, cards []models.CardRecord) error
}

// LocalAttack represents an attack in the pokemon-tcg-data JSON
type LocalAttack struct {
	Name   string   `json:"name"`
	Text   string   `json:"text"`
	Damage string   `json:"damage"`
	Cost   []string `json:"cost"`
}

// LocalAbility represents an ability in the pokemon-tcg-data JSON
type LocalAbility struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type LocalPokemonCard struct {
	Subtypes    []string        `json:"subtypes"`
	Types       []string        `json:"types"`
	Images      LocalCardImages `json:"images"`
	Attacks     []LocalAttack   `json:"attacks"`
	Abilities   []LocalAbility  `json:"abilities"`
	Rules       []string        `json:"rules"`
	RetreatCost []string        `json:"retreatCost"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Supertype   string          `json:"supertype"`
	HP          string          `json:"hp"`
	Number      string          `json:"number"`
	Rarity      string          `json:"rarity"`
	SetID       string          // Populated from filename
}

type LocalCardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type LocalSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	ReleaseDate string `json:"releaseDate"`
	Total       int    `json:"total"`
}

// ImportResult summarizes one import run
type ImportResult struct {
	Sets        int           `json:"sets"`
	Files       int           `json:"files"`
	Cards       int           `json:"cards"`
	SkippedFile int           `json:"skipped_files"`
	Duration    time.Duration `json:"duration_ns"`
}

// CardImporter loads the pokemon-tcg-data JSON checkout into the card store
type CardImporter struct {
	dataDir     string
	saver       CardSaver
	downloadURL string
	client      *http.Client
}

func NewCardImporter(dataDir string, saver CardSaver) *CardImporter {
	return &CardImporter{
		dataDir:     dataDir,
		saver:       saver,
		downloadURL: pokemonDataURL,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// DataPath returns the directory holding sets/ and cards/
func (i *CardImporter) DataPath() string {
	return filepath.Join(i.dataDir, pokemonDataFolder)
}

// Import reads every English card file and upserts the records. When the
// checkout is missing it is downloaded first if download is true.
func (i *CardImporter) Import(ctx context.Context, download bool) (*ImportResult, error) {
	start := time.Now()

	if _, err := os.Stat(i.DataPath()); os.IsNotExist(err) {
		if !download {
			return nil, fmt.Errorf("pokemon data not found at %s", i.DataPath())
		}
		log.Println("Pokemon TCG data not found. Downloading...")
		if err := i.download(ctx); err != nil {
			return nil, fmt.Errorf("failed to download pokemon data: %w", err)
		}
		log.Println("Pokemon TCG data downloaded successfully.")
	}

	records, result, err := i.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}

	if err := i.saver.SaveCards(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save imported cards: %w", err)
	}

	result.Duration = time.Since(start)
	metrics.CardsImportedTotal.Add(float64(result.Cards))
	if counter, ok := i.saver.(interface {
		Count(ctx context.Context) (int64, error)
	}); ok {
		if total, err := counter.Count(ctx); err == nil {
			metrics.CardDatabaseSize.Set(float64(total))
		} else {
			log.Printf("Warning: failed to count cards after import: %v", err)
		}
	}
	log.Printf("Card import complete: %d cards from %d files (%d sets) in %s",
		result.Cards, result.Files, result.Sets, result.Duration.Round(time.Millisecond))

	return result, nil
}

// LoadRecords parses the checkout into card records without saving them.
// Unreadable card files are skipped with a warning.
func (i *CardImporter) LoadRecords(ctx context.Context) ([]models.CardRecord, *ImportResult, error) {
	setsFile := filepath.Join(i.DataPath(), "sets", "en.json")
	setsData, err := os.ReadFile(setsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sets file: %w", err)
	}

	var setList []LocalSet
	if err := json.Unmarshal(setsData, &setList); err != nil {
		return nil, nil, fmt.Errorf("failed to parse sets: %w", err)
	}
	sets := make(map[string]LocalSet, len(setList))
	for _, set := range setList {
		sets[set.ID] = set
	}

	cardsDir := filepath.Join(i.DataPath(), "cards", "en")
	entries, err := os.ReadDir(cardsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cards directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			files = append(files, entry.Name())
		}
	}

	// one slot per file keeps the output in directory order
	perFile := make([][]models.CardRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importFileWorkers)
	for idx, name := range files {
		idx, name := idx, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			setID := strings.TrimSuffix(name, ".json")
			cardFile := filepath.Join(cardsDir, name)
			cardData, err := os.ReadFile(cardFile)
			if err != nil {
				log.Printf("Warning: failed to read card file %s: %v", cardFile, err)
				return nil
			}

			var cards []LocalPokemonCard
			if err := json.Unmarshal(cardData, &cards); err != nil {
				log.Printf("Warning: failed to parse card file %s: %v", cardFile, err)
				return nil
			}

			records := make([]models.CardRecord, 0, len(cards))
			for _, card := range cards {
				card.SetID = setID
				records = append(records, ConvertCard(card, sets[setID]))
			}
			perFile[idx] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	result := &ImportResult{Sets: len(sets), Files: len(files)}
	var records []models.CardRecord
	for _, batch := range perFile {
		if batch == nil {
			result.SkippedFile++
			continue
		}
		records = append(records, batch...)
	}
	result.Cards = len(records)

	return records, result, nil
}

// ConvertCard maps a pokemon-tcg-data card to a stored record. Pokémon with
// no printed retreat cost have free retreat; other supertypes have none.
func ConvertCard(lc LocalPokemonCard, set LocalSet) models.CardRecord {
	rec := models.CardRecord{
		CardID:    lc.ID,
		Name:      lc.Name,
		Supertype: lc.Supertype,
		Subtype:   strings.Join(lc.Subtypes, ", "),
		Types:     models.EncodeStringList(lc.Types),
		Rules:     models.EncodeStringList(lc.Rules),
		Expansion: set.Name,
		Number:    lc.Number,
		Rarity:    lc.Rarity,
		ImageURL:  lc.Images.Large,
		Source:    importSource,
	}
	if rec.ImageURL == "" {
		rec.ImageURL = lc.Images.Small
	}
	if rec.Expansion == "" {
		rec.Expansion = lc.SetID
	}

	if hp, err := strconv.Atoi(strings.TrimSpace(lc.HP)); err == nil {
		rec.HP = models.IntPtr(hp)
	}
	if len(lc.RetreatCost) > 0 || strings.EqualFold(lc.Supertype, models.SupertypePokemon) {
		rec.RetreatCost = models.IntPtr(len(lc.RetreatCost))
	}

	attacks := make([]models.Attack, 0, len(lc.Attacks))
	for _, a := range lc.Attacks {
		attacks = append(attacks, models.Attack{
			Name:   a.Name,
			Text:   a.Text,
			Damage: models.Damage(a.Damage),
			Cost:   a.Cost,
		})
	}
	rec.Attacks = models.EncodeAttacks(attacks)

	abilities := make([]models.Ability, 0, len(lc.Abilities))
	for _, a := range lc.Abilities {
		abilities = append(abilities, models.Ability{Name: a.Name, Text: a.Text, Type: a.Type})
	}
	rec.Abilities = models.EncodeAbilities(abilities)

	return rec
}

func (i *CardImporter) download(ctx context.Context) error {
	// Ensure data directory exists
	if err := os.MkdirAll(i.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	zipPath := filepath.Join(i.dataDir, "pokemon-tcg-data.zip")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.downloadURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	zipFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create zip file: %w", err)
	}
	if _, err := io.Copy(zipFile, resp.Body); err != nil {
		zipFile.Close()
		return fmt.Errorf("failed to write zip file: %w", err)
	}
	// Close file before extracting
	if err := zipFile.Close(); err != nil {
		return fmt.Errorf("failed to write zip file: %w", err)
	}

	files, err := extractZip(zipPath, i.dataDir)
	if err != nil {
		return fmt.Errorf("failed to extract zip: %w", err)
	}
	log.Printf("Extracted %d dataset files to %s", files, i.dataDir)

	if err := os.Remove(zipPath); err != nil {
		log.Printf("Warning: failed to clean up zip file: %v", err)
	}

	// Rename extracted folder (github adds -master suffix)
	if _, err := os.Stat(i.DataPath()); os.IsNotExist(err) {
		altPath := filepath.Join(i.dataDir, "pokemon-tcg-data")
		if _, err := os.Stat(altPath); err == nil {
			if renameErr := os.Rename(altPath, i.DataPath()); renameErr != nil {
				return fmt.Errorf("failed to rename extracted directory: %w", renameErr)
			}
		}
	}

	return nil
}

// ErrUnsafeArchivePath marks a dataset archive entry that would land outside
// the data directory.
var ErrUnsafeArchivePath = errors.New("archive entry escapes data directory")

// archiveTarget resolves an archive entry name under destDir
func archiveTarget(destDir, name string) (string, error) {
	root := filepath.Clean(destDir)
	target := filepath.Join(root, name)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeArchivePath, name)
	}
	return target, nil
}

// extractZip unpacks the card dataset archive into destDir and returns the
// number of files written. Every entry is checked before anything is written.
func extractZip(zipPath, destDir string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	targets := make([]string, len(r.File))
	for idx, entry := range r.File {
		target, err := archiveTarget(destDir, entry.Name)
		if err != nil {
			return 0, err
		}
		targets[idx] = target
	}

	written := 0
	for idx, entry := range r.File {
		target := targets[idx]
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("failed to create %s: %w", entry.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("failed to create parent of %s: %w", entry.Name, err)
		}
		if err := writeArchiveEntry(entry, target); err != nil {
			return written, fmt.Errorf("failed to extract %s: %w", entry.Name, err)
		}
		written++
	}
	return written, nil
}

func writeArchiveEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
