package calendar

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 2)
	if len(p.Items) != 2 || p.Items[0] != 3 || p.Items[1] != 4 {
		t.Fatalf("unexpected page items: %v", p.Items)
	}
	if !p.HasPrev || !p.HasNext || p.Total != 5 {
		t.Fatalf("unexpected page meta: %+v", p)
	}

	last := Paginate(items, 3, 2)
	if len(last.Items) != 1 || last.HasNext {
		t.Fatalf("unexpected last page: %+v", last)
	}

	beyond := Paginate(items, 10, 2)
	if len(beyond.Items) != 0 || beyond.HasNext {
		t.Fatalf("unexpected page beyond range: %+v", beyond)
	}

	def := Paginate(items, 0, 0)
	if def.Page != 1 || def.PageSize != defaultPageSize || len(def.Items) != 5 {
		t.Fatalf("unexpected defaults: %+v", def)
	}
}

func TestOffset(t *testing.T) {
	limit, offset := Offset(3, 10)
	if limit != 10 || offset != 20 {
		t.Fatalf("Offset(3, 10) = %d, %d", limit, offset)
	}
	limit, offset = Offset(-1, 0)
	if limit != defaultPageSize || offset != 0 {
		t.Fatalf("Offset defaults = %d, %d", limit, offset)
	}
}
