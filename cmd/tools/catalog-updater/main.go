// cmd/tools/catalog-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"opportunity-engine/pkg/catalog"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	vendorAdd := addCmd.String("vendor", "", "Vendor name (e.g., groq)")
	capability := addCmd.String("capability", "", "Capability (text, image, audio, trend_analysis)")
	tier := addCmd.String("tier", "", "Quality tier (budget, standard, premium)")
	position := addCmd.Int("position", 0, "Position in the fallback chain, lowest first")
	costPerUnit := addCmd.Float64("cost", 0, "Cost per unit")
	qualityScore := addCmd.Float64("quality", 5, "Quality score (0-10)")
	credentialKey := addCmd.String("credential", "", "Credential env key, empty if none required")
	addCmd.StringVar(&catalogPath, "path", "configs/provider-catalog.json", "Path to catalog file")

	// Update command flags
	vendorUpdate := updateCmd.String("vendor", "", "Vendor name to update")
	capUpdate := updateCmd.String("capability", "", "Capability of the entry to update")
	tierUpdate := updateCmd.String("tier", "", "Tier of the entry to update")
	field := updateCmd.String("field", "", "Field to update (position, cost, quality, credential)")
	value := updateCmd.String("value", "", "New value for the field")
	updateCmd.StringVar(&catalogPath, "path", "configs/provider-catalog.json", "Path to catalog file")

	// Validate command flags
	validateCmd.StringVar(&catalogPath, "path", "configs/provider-catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *vendorAdd == "" || *capability == "" || *tier == "" {
			fmt.Println("Error: vendor, capability, and tier are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		entry := catalog.Entry{
			Vendor:        *vendorAdd,
			Capability:    *capability,
			Tier:          *tier,
			Position:      *position,
			CostPerUnit:   *costPerUnit,
			QualityScore:  *qualityScore,
			CredentialKey: *credentialKey,
		}
		if err := addEntry(&entry); err != nil {
			fmt.Printf("Error adding entry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %s to %s/%s chain\n", *vendorAdd, *capability, *tier)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *vendorUpdate == "" || *capUpdate == "" || *tierUpdate == "" || *field == "" {
			fmt.Println("Error: vendor, capability, tier, and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateEntry(*vendorUpdate, *capUpdate, *tierUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating entry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated %s in %s/%s chain\n", *vendorUpdate, *capUpdate, *tierUpdate)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		cat, err := catalog.LoadCatalog(catalogPath)
		if err != nil {
			fmt.Printf("Catalog load failed: %v\n", err)
			os.Exit(1)
		}
		if err := catalog.Validate(cat); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d entries.\n", len(cat.Entries))

	case "help":
		fallthrough
	default:
		help()
	}
}

func addEntry(entry *catalog.Entry) error {
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		if os.IsNotExist(err) {
			cat = &catalog.ProviderCatalog{
				Version: "1.0.0",
				Entries: []catalog.Entry{},
			}
		} else {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	for _, existing := range cat.Entries {
		if existing.Vendor == entry.Vendor && existing.Capability == entry.Capability && existing.Tier == entry.Tier {
			return fmt.Errorf("entry for %s in %s/%s already exists", entry.Vendor, entry.Capability, entry.Tier)
		}
	}

	cat.Entries = append(cat.Entries, *entry)
	cat.LastUpdated = time.Now().Format(time.RFC3339)

	if err := catalog.ValidateEntries(cat); err != nil {
		return fmt.Errorf("catalog invalid after add: %w", err)
	}
	// A catalog under construction may not cover every capability yet; warn
	// but still save.
	if err := catalog.Validate(cat); err != nil {
		fmt.Printf("Warning: catalog not yet routable: %v\n", err)
	}
	return catalog.Save(cat, catalogPath)
}

func updateEntry(vendor, capability, tier, field, value string) error {
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	found := false
	for i := range cat.Entries {
		e := &cat.Entries[i]
		if e.Vendor != vendor || e.Capability != capability || e.Tier != tier {
			continue
		}
		found = true
		switch field {
		case "position":
			pos, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid position value: %w", err)
			}
			e.Position = pos
		case "cost":
			cost, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid cost value: %w", err)
			}
			e.CostPerUnit = cost
		case "quality":
			quality, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid quality value: %w", err)
			}
			e.QualityScore = quality
		case "credential":
			e.CredentialKey = value
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("no entry for %s in %s/%s", vendor, capability, tier)
	}

	cat.LastUpdated = time.Now().Format(time.RFC3339)

	if err := catalog.ValidateEntries(cat); err != nil {
		return fmt.Errorf("catalog invalid after update: %w", err)
	}
	return catalog.Save(cat, catalogPath)
}

func help() {
	fmt.Println(`catalog-updater manages the provider catalog.

Usage:
  catalog-updater add -vendor <name> -capability <cap> -tier <tier> [-position N] [-cost X] [-quality X] [-credential KEY]
  catalog-updater update -vendor <name> -capability <cap> -tier <tier> -field <field> -value <value>
  catalog-updater validate [-path <file>]`)
}
