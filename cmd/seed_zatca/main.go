// seed_zatca generates the SQL seed script for the fixed ZATCA catalogue
// tables (VAT exemption reasons and party identification schemes) from the
// in-code catalogues, so the database mirrors what the assembler resolves.
//
// Usage: go run ./cmd/seed_zatca
// Writes: internal/infrastructure/postgres/migrations/011_seed_zatca_catalogues.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pkgzatca "zatca-pro/pkg/zatca"
)

func main() {
	moduleRoot := findModuleRoot()
	outDir := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create migrations dir: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "011_seed_zatca_catalogues.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	// Sort English texts for stable output across runs
	texts := make([]string, 0, len(pkgzatca.ExemptionReasonByText))
	for t := range pkgzatca.ExemptionReasonByText {
		texts = append(texts, t)
	}
	sort.Strings(texts)

	out.WriteString("-- ZATCA fixed catalogues (exemption reasons BT-121, party ID schemes)\n")
	out.WriteString("-- Generated from the in-code catalogue tables\n\n")

	out.WriteString("-- 1. VAT exemption reasons\n")
	out.WriteString("INSERT INTO vat_exemption_reasons (reason_text, reason_code, reason_arabic) VALUES\n")
	for i, t := range texts {
		entry := pkgzatca.ExemptionReasonByText[t]
		sep := ","
		if i == len(texts)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s')%s\n",
			escapeSQL(t), entry.Code, escapeSQL(entry.Arabic), sep)
	}
	out.WriteString("ON CONFLICT (reason_code) DO UPDATE SET reason_text = EXCLUDED.reason_text, reason_arabic = EXCLUDED.reason_arabic;\n\n")

	// 2. Party identification schemes with their canonical positions
	out.WriteString("-- 2. Party identification schemes (canonical priority per role)\n")
	writeSchemes(out, "seller", pkgzatca.SellerSchemeOrder)
	writeSchemes(out, "buyer", pkgzatca.BuyerSchemeOrder)

	fmt.Printf("Generated %s: %d exemption reasons, %d seller schemes, %d buyer schemes\n",
		outPath, len(texts), len(pkgzatca.SellerSchemeOrder), len(pkgzatca.BuyerSchemeOrder))
}

func writeSchemes(out *os.File, role string, order []string) {
	fmt.Fprintf(out, "INSERT INTO party_id_schemes (role, scheme, position) VALUES\n")
	for i, s := range order {
		sep := ","
		if i == len(order)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', %d)%s\n", role, s, i+1, sep)
	}
	out.WriteString("ON CONFLICT (role, scheme) DO UPDATE SET position = EXCLUDED.position;\n\n")
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
