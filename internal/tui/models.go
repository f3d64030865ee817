package tui

type View int

const (
	ViewBrowse View = iota
	ViewCategoryPicker
	ViewSourcePicker
	ViewReader
)

func (v View) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewCategoryPicker:
		return "category"
	case ViewSourcePicker:
		return "source"
	case ViewReader:
		return "reader"
	default:
		return "unknown"
	}
}
