package usertable

import (
	domain "usertable/internal/domain/user"
)

// View is the render-ready projection of State.
type View struct {
	Rows      []domain.User
	Total     int64
	Loading   bool
	Page      int64
	PageCount int64
	PageSize  int64
	Query     string
	Sort      SortSpec
	Editing   *EditSession
}

// View filters and sorts the loaded page. Pagination is sized from the
// server's total, never from the filtered row count.
func (uc *Usecase) View() View {
	s := uc.State()
	p := domain.NewPagination(s.Total, s.Page, uc.pageSize)

	return View{
		Rows:      Sort(Filter(s.Users, s.Query), s.Sort, uc.tr.Tag()),
		Total:     s.Total,
		Loading:   s.Loading,
		Page:      s.Page,
		PageCount: p.TotalPages,
		PageSize:  uc.pageSize,
		Query:     s.Query,
		Sort:      s.Sort,
		Editing:   s.Editing,
	}
}
