package entitylink_test

import (
	"testing"

	"github.com/alexanderjulianmartinez/columnwatch/internal/entitylink"
)

func TestColumnName(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{name: "full link", in: "<#E::table::shop.public.users::columns::email>", want: "email"},
		{name: "no trailing bracket", in: "<#E::table::users::columns::status", want: "status"},
		{name: "bare column", in: "nickname", want: "nickname"},
		{name: "whitespace", in: " <#E::table::t::columns:: name > ", want: "name"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := entitylink.ColumnName(tc.in); got != tc.want {
				t.Fatalf("ColumnName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{name: "qualified", in: "<#E::table::shop.public.users::columns::email>", want: "users"},
		{name: "table link", in: "<#E::table::orders>", want: "orders"},
		{name: "no table marker", in: "email", want: ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := entitylink.Table(tc.in); got != tc.want {
				t.Fatalf("Table(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
