package pipeline

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-mdtheme/internal/yamlutil"
)

const frontMatterFence = "---"

// FrontMatter holds the document metadata read from a leading YAML block.
// Unknown keys are ignored.
type FrontMatter struct {
	Title string `yaml:"title"`
}

// SplitFrontMatter separates a leading "---" YAML block from the Markdown
// body. Content without the fence, or with a block that does not parse, is
// returned whole with empty metadata so a stray horizontal rule never
// swallows text.
func SplitFrontMatter(content string, logger logrus.FieldLogger) (FrontMatter, string) {
	var meta FrontMatter
	if !strings.HasPrefix(content, frontMatterFence+"\n") {
		return meta, content
	}

	body, err := frontmatter.Parse(strings.NewReader(content), &meta, frontmatter.NewFormat(frontMatterFence, frontMatterFence, yamlUnmarshal))
	if err != nil {
		if logger != nil {
			logger.WithError(err).Debug("front matter ignored")
		}
		return FrontMatter{}, content
	}
	return meta, string(body)
}

// yamlUnmarshal decodes front matter with the shared YAML library. An empty
// block is valid and leaves meta untouched.
func yamlUnmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yamlutil.Unmarshal(data, v)
}
