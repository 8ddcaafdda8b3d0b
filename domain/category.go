package domain

type Category string

const (
	CategoryAll      Category = "all"
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryArchive  Category = "archive"
	CategoryOther    Category = "other"
)

// Taxonomy maps extensions to a category. Any extension absent from the table,
// the empty one included, belongs to CategoryOther, so Classify is total.
type Taxonomy struct {
	byExtension map[string]Category
	categories  []Category
}

// NewTaxonomy builds a taxonomy from category buckets. An extension listed in
// several buckets keeps the first one.
func NewTaxonomy(buckets map[Category][]string, order ...Category) Taxonomy {
	t := Taxonomy{byExtension: make(map[string]Category)}
	for _, c := range order {
		for _, ext := range buckets[c] {
			if _, taken := t.byExtension[ext]; !taken {
				t.byExtension[ext] = c
			}
		}
		t.categories = append(t.categories, c)
	}
	t.categories = append(t.categories, CategoryOther)
	return t
}

func (t Taxonomy) Classify(extension string) Category {
	if c, ok := t.byExtension[extension]; ok {
		return c
	}
	return CategoryOther
}

// Categories lists the filterable categories, CategoryOther last.
func (t Taxonomy) Categories() []Category {
	return append([]Category(nil), t.categories...)
}

// Accepts reports whether the category can be used as a filter with this taxonomy.
func (t Taxonomy) Accepts(c Category) bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range t.categories {
		if known == c {
			return true
		}
	}
	return false
}

var (
	imageExtensions    = []string{"jpg", "jpeg", "png", "gif", "svg", "webp"}
	documentExtensions = []string{"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt"}
	videoExtensions    = []string{"mp4", "avi", "mov", "wmv", "mkv", "webm"}
	audioExtensions    = []string{"mp3", "wav", "ogg", "flac", "aac"}
	archiveExtensions  = []string{"zip", "rar", "7z", "tar", "gz"}
)

// DefaultTaxonomy offers archive as its own filter.
var DefaultTaxonomy = NewTaxonomy(map[Category][]string{
	CategoryImage:    imageExtensions,
	CategoryDocument: documentExtensions,
	CategoryVideo:    videoExtensions,
	CategoryAudio:    audioExtensions,
	CategoryArchive:  archiveExtensions,
}, CategoryImage, CategoryDocument, CategoryVideo, CategoryAudio, CategoryArchive)

// FoldedTaxonomy is used by views without an archive filter: archives fall into other.
var FoldedTaxonomy = NewTaxonomy(map[Category][]string{
	CategoryImage:    imageExtensions,
	CategoryDocument: documentExtensions,
	CategoryVideo:    videoExtensions,
	CategoryAudio:    audioExtensions,
}, CategoryImage, CategoryDocument, CategoryVideo, CategoryAudio)

func ToCategory(s string) (Category, bool) {
	switch c := Category(s); c {
	case CategoryAll, CategoryImage, CategoryDocument, CategoryVideo, CategoryAudio, CategoryArchive, CategoryOther:
		return c, true
	default:
		return CategoryAll, false
	}
}
