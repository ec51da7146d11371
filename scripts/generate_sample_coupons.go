package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates the sample coupon ledgers used for local runs and the coupon
// integration tests. ledger2 is loaded after ledger1, so SUMMER25 resolves
// to the ledger2 rule (20%).
func main() {
	dataDir := "data/coupons"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	ledgers := []struct {
		name  string
		lines []string
	}{
		{
			name: "ledger1.gz",
			lines: []string{
				"# code,kind,value",
				"WELCOME10,fixed,10",
				"SUMMER25,percent,25",
				"FREESHIP,fixed,9",
				"BIGSAVE50,fixed,50",
				"BROKENLINE",
			},
		},
		{
			name: "ledger2.gz",
			lines: []string{
				"SUMMER25,percent,20",
				"WINTER15,percent,15",
				"VIP100,fixed,100",
			},
		},
	}

	for _, l := range ledgers {
		path := filepath.Join(dataDir, l.name)
		if err := createLedgerFile(path, l.lines); err != nil {
			log.Fatalf("Failed to create %s: %v", l.name, err)
		}
		fmt.Printf("Created %s with %d lines\n", path, len(l.lines))
	}

	fmt.Println("\nSample coupon ledgers created successfully!")
	fmt.Println("\nResolvable codes:")
	fmt.Println("  - WELCOME10  fixed 10.00")
	fmt.Println("  - SUMMER25   20% (ledger2 overrides ledger1)")
	fmt.Println("  - FREESHIP   fixed 9.00")
	fmt.Println("  - BIGSAVE50  fixed 50.00")
	fmt.Println("  - WINTER15   15%")
	fmt.Println("  - VIP100     fixed 100.00")
}

func createLedgerFile(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", line); err != nil {
			return fmt.Errorf("failed to write ledger line: %w", err)
		}
	}

	return nil
}
