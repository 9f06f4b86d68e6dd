// Command mvtdump dumps the layers, schema, and features of an MVT tile
// file or a Z/X/Y tile directory, grounded on cmd/coginfo's plain
// single-purpose inspector style.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pspoerri/rastermvt/internal/mvt"
	"github.com/pspoerri/rastermvt/internal/mvtdir"
)

func main() {
	var (
		clip     bool
		dirMode  bool
		z, x, y  int
		metaFile string
	)
	flag.BoolVar(&clip, "clip", false, "Clip decoded geometry to the tile envelope")
	flag.BoolVar(&dirMode, "dir", false, "Treat the argument as a Z/X/Y tile directory root, not a single tile file")
	flag.IntVar(&z, "z", -1, "Tile Z (single-tile mode only; enables WebMercator georeferencing)")
	flag.IntVar(&x, "x", 0, "Tile X (single-tile mode only)")
	flag.IntVar(&y, "y", 0, "Tile Y (single-tile mode only)")
	flag.StringVar(&metaFile, "metadata", "", "Path to a sibling metadata.json (directory mode only)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mvtdump [flags] <file.mvt>\n")
		fmt.Fprintf(os.Stderr, "       mvtdump -dir [flags] <root> <zoom>\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if dirMode {
		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}
		zoom, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "parsing zoom level %q: %v\n", args[1], err)
			os.Exit(1)
		}
		dumpDirectory(args[0], zoom, clip, metaFile)
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var addr *mvt.TileAddress
	if z >= 0 {
		addr = &mvt.TileAddress{Z: z, X: x, Y: y}
	}

	td, err := mvt.OpenTile(data, addr, mvt.OpenOptions{Clip: clip})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dumpTile(td)
}

func dumpTile(td *mvt.TileDataset) {
	for _, l := range td.Layers() {
		fmt.Printf("Layer %q: extent=%d version=%d features=%d\n", l.Name, l.Extent, l.Version, l.FeatureCount())
		for _, name := range l.Schema.Fields {
			ty, _ := l.Schema.Type(name)
			fmt.Printf("  field %s: %s\n", name, ty.Base)
		}
		l.Reset()
		count := 0
		for {
			f, err, ok := l.NextFeature()
			if err != nil {
				fmt.Printf("  feature error: %v\n", err)
				continue
			}
			if !ok {
				break
			}
			fmt.Printf("  feature %d: geom=%T attrs=%d\n", count, f.Geom, len(f.Attrs))
			count++
		}
	}
}

func dumpDirectory(root string, zoom int, clip bool, metaFile string) {
	store := &fsTileStore{root: root}
	opts := mvtdir.DirectoryOptions{Clip: clip}
	if metaFile != "" {
		raw, err := os.ReadFile(metaFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading metadata: %v\n", err)
			os.Exit(1)
		}
		md, err := mvtdir.ParseMetadata(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing metadata: %v\n", err)
			os.Exit(1)
		}
		opts.Metadata = md
	}

	d, err := mvtdir.OpenDirectory(store, zoom, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, name := range d.LayerNames() {
		l := d.Layer(name)
		fmt.Printf("Layer %q: %d field(s)\n", name, len(l.Schema.Fields))
		count := 0
		for {
			_, err, ok := l.NextFeature()
			if err != nil {
				fmt.Printf("  feature error: %v\n", err)
				continue
			}
			if !ok {
				break
			}
			count++
		}
		fmt.Printf("  %d feature(s) across the tree\n", count)
	}
}

// fsTileStore implements mvtdir.TileStore over root/<Z>/<X>/<Y>.<ext>.
type fsTileStore struct {
	root string
}

var knownExtensions = []string{"mvt", "pbf"}

func (s *fsTileStore) ReadTile(z, x, y int) ([]byte, bool, error) {
	for _, ext := range knownExtensions {
		p := filepath.Join(s.root, strconv.Itoa(z), strconv.Itoa(x), fmt.Sprintf("%d.%s", y, ext))
		data, err := os.ReadFile(p)
		if err == nil {
			return data, true, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, err
		}
	}
	return nil, false, nil
}

func (s *fsTileStore) ListY(z, x int) ([]int, bool, error) {
	dir := filepath.Join(s.root, strconv.Itoa(z), strconv.Itoa(x))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	if len(entries) > mvtdir.MaxFilesPerDir {
		return nil, false, nil
	}
	ys := make([]int, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		ext := filepath.Ext(name)
		y, err := strconv.Atoi(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		ys = append(ys, y)
	}
	return ys, true, nil
}
