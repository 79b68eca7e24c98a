// Package preprocess replaces documentation tags in Markdown sources with
// generated database documentation.
//
//	<pgsqldoc host="db" filters="{eq: {schema: public}}"></pgsqldoc>
//	<dbdoc dbms="oracle" components="[tables]"/>
package preprocess

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/redbco/redb-dbdoc/internal/docgen"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
	"github.com/redbco/redb-dbdoc/pkg/logger"
)

// GenericTag takes the engine from its dbms attribute.
const GenericTag = "dbdoc"

// Tags maps each recognized tag to its engine. The generic tag maps to "".
var Tags = map[string]dbcapabilities.DatabaseID{
	"pgsqldoc":  dbcapabilities.PostgreSQL,
	"pgsql":     dbcapabilities.PostgreSQL,
	"oracle":    dbcapabilities.Oracle,
	"sqlserver": dbcapabilities.SQLServer,
	"mysql":     dbcapabilities.MySQL,
	GenericTag:  "",
}

var tagPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(Tags))
	for name := range Tags {
		out[name] = regexp.MustCompile(`(?s)<` + name + `(\s[^<>]*?)?(?:/>|>(.*?)</` + name + `>)`)
	}
	return out
}()

var attrPattern = regexp.MustCompile(`([A-Za-z_:][\w:.\-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Block is one tag occurrence in a source.
type Block struct {
	Tag   string
	Start int
	End   int
	Line  int
	Attrs []options.Attr
}

// Options returns the block's layer. Engine-specific tags set dbms.
func (b Block) Options() (options.Options, error) {
	o, err := options.FromAttrs(b.Attrs)
	if err != nil {
		return options.Options{}, fmt.Errorf("<%s> on line %d: %w", b.Tag, b.Line, err)
	}
	if id := Tags[b.Tag]; id != "" {
		o.DBMS = options.Ptr(string(id))
	}
	return o, nil
}

// Scan finds every tag in content, in document order.
func Scan(content string) []Block {
	var blocks []Block
	for name, re := range tagPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			b := Block{Tag: name, Start: m[0], End: m[1]}
			if m[2] >= 0 {
				b.Attrs = ParseAttrs(content[m[2]:m[3]])
			}
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	// Tags never nest; drop anything inside an earlier block.
	out := blocks[:0]
	end := -1
	for _, b := range blocks {
		if b.Start < end {
			continue
		}
		b.Line = strings.Count(content[:b.Start], "\n") + 1
		out = append(out, b)
		end = b.End
	}
	return out
}

// ParseAttrs reads key="value" pairs in order.
func ParseAttrs(s string) []options.Attr {
	var attrs []options.Attr
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		attrs = append(attrs, options.Attr{Key: m[1], Value: v})
	}
	return attrs
}

// Processor rewrites sources using a docgen.Generator.
type Processor struct {
	gen *docgen.Generator
	log *logger.Logger
}

func NewProcessor(gen *docgen.Generator, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}
	return &Processor{gen: gen, log: log}
}

// Process replaces every tag in content with its generated block. Blocks are
// generated one after another; the first error stops processing.
func (p *Processor) Process(ctx context.Context, content string) (string, error) {
	blocks := Scan(content)
	if len(blocks) == 0 {
		return content, nil
	}

	var b strings.Builder
	last := 0
	for _, block := range blocks {
		opts, err := block.Options()
		if err != nil {
			return "", err
		}
		p.log.Debugf("Processing <%s> on line %d", block.Tag, block.Line)

		out, err := p.gen.Generate(ctx, opts)
		if err != nil {
			return "", fmt.Errorf("<%s> on line %d: %w", block.Tag, block.Line, err)
		}
		b.WriteString(content[last:block.Start])
		b.WriteString(out)
		last = block.End
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

// ProcessFile processes src and writes the result to dst, creating its
// directory. dst may equal src.
func (p *Processor) ProcessFile(ctx context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	out, err := p.Process(ctx, string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if out == string(data) && src == dst {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	p.log.Infof("Wrote %s", dst)
	return nil
}
