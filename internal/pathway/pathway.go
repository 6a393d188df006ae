// Package pathway loads gene-to-pathway annotation tables and derives
// pathway membership for annotated records.
package pathway

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inodb/mpcannot/internal/filter"
)

// FileSuffix marks pathway annotation files; the pathway is named by the
// rest of the file name.
const FileSuffix = "_with_gene_annotations.txt"

// ColGene is the gene symbol column of a pathway annotation table.
const ColGene = "HGNC_symbol"

// File is one pathway annotation file.
type File struct {
	Name string
	Path string
}

// Table holds one pathway's member genes, in file order and
// duplicate-free.
type Table struct {
	Name  string
	Genes []string
}

// Discover resolves the pathway annotation files to load. With a no-op spec
// the directory is scanned for files carrying FileSuffix; otherwise each
// spec value names a pathway whose file is expected at
// dir/<name>_with_gene_annotations.txt, missing files surfacing as read
// errors at load time. Results are sorted by pathway name.
func Discover(dir string, spec *filter.Spec) ([]File, error) {
	var files []File
	if spec.IsNone() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("open pathway directory: %w", err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), FileSuffix) {
				continue
			}
			files = append(files, File{
				Name: strings.TrimSuffix(e.Name(), FileSuffix),
				Path: filepath.Join(dir, e.Name()),
			})
		}
	} else {
		for _, name := range spec.Values {
			files = append(files, File{
				Name: name,
				Path: filepath.Join(dir, name+FileSuffix),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Load reads the gene column of one pathway annotation table. Rows with a
// missing or "NA" gene symbol are skipped.
func Load(f File) (*Table, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open pathway table: %w", err)
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading pathway table %s: %w", f.Name, err)
		}
		return nil, fmt.Errorf("pathway table %s: empty file", f.Name)
	}

	geneIdx := -1
	for i, col := range strings.Split(scanner.Text(), "\t") {
		if strings.TrimSpace(col) == ColGene {
			geneIdx = i
		}
	}
	if geneIdx < 0 {
		return nil, fmt.Errorf("pathway table %s: missing %q column", f.Name, ColGene)
	}

	table := &Table{Name: f.Name}
	seen := make(map[string]struct{})
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= geneIdx {
			continue
		}
		gene := strings.TrimSpace(fields[geneIdx])
		if gene == "" || gene == "NA" {
			continue
		}
		if _, ok := seen[gene]; ok {
			continue
		}
		seen[gene] = struct{}{}
		table.Genes = append(table.Genes, gene)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pathway table %s: %w", f.Name, err)
	}
	return table, nil
}

// LoadAll loads every table, failing on the first unreadable one.
func LoadAll(files []File) ([]*Table, error) {
	tables := make([]*Table, 0, len(files))
	for _, f := range files {
		t, err := Load(f)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// GenePathways inverts a set of tables into a gene-to-pathways lookup.
// Pathway lists come out sorted and duplicate-free.
func GenePathways(tables []*Table) map[string][]string {
	byGene := make(map[string]map[string]struct{})
	for _, t := range tables {
		for _, gene := range t.Genes {
			if byGene[gene] == nil {
				byGene[gene] = make(map[string]struct{})
			}
			byGene[gene][t.Name] = struct{}{}
		}
	}

	out := make(map[string][]string, len(byGene))
	for gene, set := range byGene {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		out[gene] = names
	}
	return out
}
