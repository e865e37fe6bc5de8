package categories

// Category maps an upstream URL slug to its display name and the numeric ID
// used by the legacy article schema.
type Category struct {
	Slug     string
	Name     string
	LegacyID int
}

// table is the fixed category list crawled each cycle. Order matters: the
// scheduler iterates it top to bottom and the classifier uses the same order
// as its tie-break.
var table = []Category{
	{"thoi-su", "Thời sự", 1},
	{"the-gioi", "Thế giới", 2},
	{"phap-luat", "Pháp luật", 3},
	{"kinh-doanh", "Kinh doanh", 4},
	{"cong-nghe", "Công nghệ", 5},
	{"xe", "Xe", 6},
	{"du-lich", "Du lịch", 7},
	{"nhip-song-tre", "Nhịp sống trẻ", 8},
	{"van-hoa", "Văn hóa", 9},
	{"giai-tri", "Giải trí", 10},
	{"the-thao", "Thể thao", 11},
	{"giao-duc", "Giáo dục", 12},
	{"suc-khoe", "Sức khỏe", 13},
}

// DefaultName is the fallback display name when no category can be resolved.
const DefaultName = "Tin tức"

// All returns the category table in declared order.
func All() []Category {
	out := make([]Category, len(table))
	copy(out, table)
	return out
}

// Slugs returns every category slug in declared order.
func Slugs() []string {
	slugs := make([]string, len(table))
	for i, c := range table {
		slugs[i] = c.Slug
	}
	return slugs
}

// Lookup resolves a slug to its category definition.
func Lookup(slug string) (Category, bool) {
	for _, c := range table {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// NameFor returns the display name for a slug, or DefaultName if the slug is
// unknown.
func NameFor(slug string) string {
	if c, ok := Lookup(slug); ok {
		return c.Name
	}
	return DefaultName
}

// SlugForName resolves a display name back to its slug, or "" if the name is
// not in the table.
func SlugForName(name string) string {
	for _, c := range table {
		if c.Name == name {
			return c.Slug
		}
	}
	return ""
}

// ValidSlug reports whether the slug belongs to the crawled category list.
func ValidSlug(slug string) bool {
	_, ok := Lookup(slug)
	return ok
}
