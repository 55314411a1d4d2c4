package tree

import "github.com/ritual-tui/ritual/internal/models"

// Occurrences of a recurring task clone their subtasks with fresh ids, so a subtask
// is matched across occurrences by the titles leading to it from the root.
// At each level every child carrying the title matches.

// TitlePath returns the titles from root's children down to id.
// It fails when id is root itself or is not below it.
func TitlePath(root models.Task, id string) ([]string, bool) {
	chain, ok := FindPath(root.Children, id)
	if !ok {
		return nil, false
	}
	path := make([]string, len(chain))
	for i, t := range chain {
		path[i] = t.Title
	}
	return path, true
}

// MapTitlePath applies fn to every descendant of root reached by path.
// An empty path applies fn to root.
func MapTitlePath(root models.Task, path []string, fn func(models.Task) models.Task) models.Task {
	if len(path) == 0 {
		return fn(root)
	}
	children := make([]models.Task, len(root.Children))
	for i, c := range root.Children {
		if c.Title == path[0] {
			c = MapTitlePath(c, path[1:], fn)
		}
		children[i] = c
	}
	root.Children = children
	return root
}

// DeleteTitlePath removes every descendant of root reached by path.
func DeleteTitlePath(root models.Task, path []string) models.Task {
	if len(path) == 0 {
		return root
	}
	children := make([]models.Task, 0, len(root.Children))
	for _, c := range root.Children {
		if c.Title == path[0] {
			if len(path) == 1 {
				continue
			}
			c = DeleteTitlePath(c, path[1:])
		}
		children = append(children, c)
	}
	root.Children = children
	return root
}
