package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okim/optionlogic-backend/config"
	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/internal/db"
	"github.com/okim/optionlogic-backend/pkg/util"
)

// Imports option sets from an XLSX workbook. One row per option value (or
// per option, for free-form types). Expected columns:
//
//	0 set name | 1 set description | 2 option name | 3 option type
//	4 required | 5 multiple | 6 value label | 7 value token
//	8 price modifier | 9 price type | 10 color hex
//
// Rows sharing a set name build one set; rows sharing an option name within
// a set build one option.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	setRepo := repository.NewOptionSetRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	sets, err := readOptionSetsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total option sets to import: %d\n", len(sets))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	for _, set := range sets {
		if err := setRepo.Create(set); err != nil {
			log.Fatalf("Failed to create option set %q: %v", set.Name, err)
		}
		fmt.Printf("Imported %q (%d options)\n", set.Name, len(set.Options))
	}

	fmt.Println("Import completed successfully!")
}

func readOptionSetsFromXLSX(filePath string) ([]*model.OptionSet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var sets []*model.OptionSet
	setsByName := make(map[string]*model.OptionSet)
	optionIndex := make(map[string]int) // "set|option" -> index in set.Options
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 4 {
			skippedCount++
			continue
		}

		setName := strings.TrimSpace(cell(row, 0))
		optionName := strings.TrimSpace(cell(row, 2))
		optionType := model.OptionType(strings.TrimSpace(cell(row, 3)))
		if setName == "" || optionName == "" || optionType == "" {
			skippedCount++
			continue
		}

		set, ok := setsByName[setName]
		if !ok {
			set = &model.OptionSet{
				Name:        setName,
				Description: strings.TrimSpace(cell(row, 1)),
				Status:      model.StatusActive,
			}
			setsByName[setName] = set
			sets = append(sets, set)
		}

		optionKey := setName + "|" + optionName
		idx, ok := optionIndex[optionKey]
		if !ok {
			set.Options = append(set.Options, model.Option{
				Name:     optionName,
				Type:     optionType,
				Required: parseBool(cell(row, 4)),
				Multiple: parseBool(cell(row, 5)),
				Position: len(set.Options),
				Status:   model.StatusActive,
			})
			idx = len(set.Options) - 1
			optionIndex[optionKey] = idx
		}

		label := strings.TrimSpace(cell(row, 6))
		if label == "" {
			// free-form option row, no value to attach
			continue
		}

		option := &set.Options[idx]
		token := strings.TrimSpace(cell(row, 7))
		if token == "" {
			token = util.Slugify(label)
		}

		priceType := model.PriceType(strings.TrimSpace(cell(row, 9)))
		if priceType == "" {
			priceType = model.PriceFixed
		}

		option.Values = append(option.Values, model.OptionValue{
			Label:         label,
			Value:         token,
			PriceModifier: parseFloat(cell(row, 8)),
			PriceType:     priceType,
			ColorHex:      strings.TrimSpace(cell(row, 10)),
			Position:      len(option.Values),
			Status:        model.StatusActive,
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Option sets: %d\n", len(sets))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return sets, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
