package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Lists columns that exist in the database but have no matching field on the Go
model, so drift introduced from the managed backend dashboard shows up early.

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run main.go

Example output:
	table=blog_posts missing=["slug"] column mismatch
*/

// managedModels maps table names to the structs that own them
func managedModels() map[string]any {
	return map[string]any{
		BlogPost{}.TableName(): BlogPost{},
	}
}

// GenerateModels migrates the managed tables and writes typed query helpers
// into outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	migrateDB := db.Session(&gorm.Session{
		Logger:                 db.Logger.LogMode(logger.Info),
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	log.Info().Msg("Migrating models...")
	if err := migrateDB.AutoMigrate(&BlogPost{}); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	if _, err := ColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(BlogPost{})
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Model generation complete")
	return nil
}

// ColumnMismatchReport returns, per managed table, the database columns that
// the Go model does not declare. Tables that do not exist yet are skipped.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	total := 0

	for tableName, model := range managedModels() {
		if !db.Migrator().HasTable(tableName) {
			log.Warn().Str("table", tableName).Msg("table does not exist yet")
			continue
		}

		dbColumns, err := tableColumns(db, tableName)
		if err != nil {
			return nil, err
		}

		modelFields, err := modelColumns(model)
		if err != nil {
			return nil, err
		}

		mismatches := findColumnMismatches(dbColumns, modelFields)
		report[tableName] = mismatches
		total += len(mismatches)

		if len(mismatches) > 0 {
			log.Warn().Str("table", tableName).Strs("missing", mismatches).Msg("column mismatch")
		} else {
			log.Info().Str("table", tableName).Msg("all columns are accounted for in the model")
		}
	}

	log.Info().Int("total", total).Msg("column mismatch report done")
	return report, nil
}

func tableColumns(db *gorm.DB, tableName string) ([]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// modelColumns resolves the column names GORM maps for a model
func modelColumns(model any) ([]string, error) {
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("parse model schema: %w", err)
	}
	return s.DBNames, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	mismatches := []string{}
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)

	return mismatches
}
