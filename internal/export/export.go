// Package export writes the CSV fixtures consumed by the JMeter test plans.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pankajredekar/catalogseed/internal/generator"
	"github.com/pankajredekar/catalogseed/internal/model"
	"github.com/spf13/afero"
)

// Fixture file names.
const (
	CategoryIDsFile   = "jmeter_category_ids.csv"
	ItemIDsFile       = "jmeter_item_ids.csv"
	LightPayloadsFile = "jmeter_light_payloads.csv"
	HeavyPayloadsFile = "jmeter_heavy_payloads.csv"
)

// Defaults for Options.
const (
	DefaultCategorySample = 500
	DefaultItemSample     = 1000
	DefaultLightPayloads  = 500
	DefaultHeavyPayloads  = 200
)

var (
	categoryIDsHeader   = []string{"category_id"}
	itemIDsHeader       = []string{"item_id"}
	lightPayloadsHeader = []string{"name", "price", "stock", "description"}
	heavyPayloadsHeader = []string{"name", "price", "stock", "description", "specifications"}
)

// Options controls fixture sizes.
type Options struct {
	CategorySample int
	ItemSample     int
	LightPayloads  int
	HeavyPayloads  int
	// PersistedIDs exports storage keys instead of generation sequence ids.
	PersistedIDs bool
}

// DefaultOptions returns the standard fixture sizes.
func DefaultOptions() Options {
	return Options{
		CategorySample: DefaultCategorySample,
		ItemSample:     DefaultItemSample,
		LightPayloads:  DefaultLightPayloads,
		HeavyPayloads:  DefaultHeavyPayloads,
	}
}

// File describes one written fixture.
type File struct {
	Name string
	Rows int
}

// Result lists the fixtures written by Export, in write order.
type Result struct {
	Files []File
}

// Exporter writes fixtures into fs.
type Exporter struct {
	fs   afero.Fs
	gen  *generator.Generator
	opts Options
}

// NewExporter creates a new exporter. Sampling and payload text are drawn
// from gen.
func NewExporter(fs afero.Fs, gen *generator.Generator, opts Options) *Exporter {
	return &Exporter{fs: fs, gen: gen, opts: opts}
}

// Export writes all four fixture files. The first failing file aborts the
// export.
func (e *Exporter) Export(categories []model.Category, items []model.Item) (Result, error) {
	var result Result

	categorySample := e.gen.SampleIndexes(len(categories), e.opts.CategorySample)
	categoryRows := make([][]string, 0, len(categorySample))
	for _, idx := range categorySample {
		c := categories[idx]
		categoryRows = append(categoryRows, []string{e.formatID(c.Seq, c.ID)})
	}
	if err := e.writeCSV(CategoryIDsFile, categoryIDsHeader, categoryRows, &result); err != nil {
		return result, err
	}

	itemSample := e.gen.SampleIndexes(len(items), e.opts.ItemSample)
	itemRows := make([][]string, 0, len(itemSample))
	for _, idx := range itemSample {
		it := items[idx]
		itemRows = append(itemRows, []string{e.formatID(it.Seq, it.ID)})
	}
	if err := e.writeCSV(ItemIDsFile, itemIDsHeader, itemRows, &result); err != nil {
		return result, err
	}

	light := e.gen.LightPayloads(e.opts.LightPayloads)
	lightRows := make([][]string, 0, len(light))
	for _, p := range light {
		lightRows = append(lightRows, []string{p.Name, p.Price.StringFixed(2), strconv.Itoa(p.Stock), p.Description})
	}
	if err := e.writeCSV(LightPayloadsFile, lightPayloadsHeader, lightRows, &result); err != nil {
		return result, err
	}

	heavy := e.gen.HeavyPayloads(e.opts.HeavyPayloads)
	heavyRows := make([][]string, 0, len(heavy))
	for _, p := range heavy {
		heavyRows = append(heavyRows, []string{p.Name, p.Price.StringFixed(2), strconv.Itoa(p.Stock), p.Description, p.Specifications})
	}
	if err := e.writeCSV(HeavyPayloadsFile, heavyPayloadsHeader, heavyRows, &result); err != nil {
		return result, err
	}

	return result, nil
}

func (e *Exporter) formatID(seq int, key uint) string {
	if e.opts.PersistedIDs {
		return strconv.FormatUint(uint64(key), 10)
	}
	return strconv.Itoa(seq)
}

func (e *Exporter) writeCSV(name string, header []string, rows [][]string, result *Result) (err error) {
	f, err := e.fs.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", name, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	result.Files = append(result.Files, File{Name: name, Rows: len(rows)})
	return nil
}
