package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// geonames dump column layout (tab separated, 19 columns):
// 0 id, 1 name, 2 asciiname, 3 alternatenames, 4 lat, 5 lon,
// 6 feature class, 7 feature code, 8 country, 9 cc2, 10 admin1,
// 11 admin2, 12 admin3, 13 admin4, 14 population, 15 elevation,
// 16 dem, 17 timezone, 18 modification date
const geonamesColumns = 19

// maxLineBytes covers records with very long alternate-name lists,
// which blow past bufio.Scanner's default token size.
const maxLineBytes = 1 << 20

// LoadTSV reads a geonames-format TSV file into a Catalog.
// A header line (one starting with a non-numeric id column) is skipped,
// as are malformed rows; both are logged at debug/warn level only so a
// few bad rows never abort a multi-thousand-row load.
func LoadTSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	var places []*Place
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		place, err := parseRow(line)
		if err != nil {
			if lineNo == 1 {
				log.Debugf("Skipping header line in %s", path)
			} else {
				log.Warnf("Skipping row %d: %v", lineNo, err)
				skipped++
			}
			continue
		}
		places = append(places, place)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	log.Debugf("Loaded %d places from %s (%d rows skipped)", len(places), path, skipped)
	return New(places), nil
}

func parseRow(line string) (*Place, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < geonamesColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", geonamesColumns, len(cols))
	}

	id, err := strconv.ParseInt(cols[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad id %q: %w", cols[0], err)
	}
	if cols[1] == "" {
		return nil, fmt.Errorf("row %d has no name", id)
	}
	lat, err := strconv.ParseFloat(cols[4], 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", cols[4], err)
	}
	lon, err := strconv.ParseFloat(cols[5], 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", cols[5], err)
	}

	// Population and elevation default to zero on unparsable input
	// rather than dropping the row.
	pop, err := strconv.ParseInt(cols[14], 10, 64)
	if err != nil || pop < 0 {
		pop = 0
	}
	elev, err := strconv.Atoi(cols[15])
	if err != nil {
		elev = 0
	}

	return &Place{
		ID:         id,
		Name:       cols[1],
		ASCIIName:  cols[2],
		AltNames:   cols[3],
		Latitude:   lat,
		Longitude:  lon,
		Country:    cols[8],
		Admin1:     cols[10],
		Population: pop,
		Elevation:  elev,
		Timezone:   cols[17],
		Modified:   cols[18],
	}, nil
}
