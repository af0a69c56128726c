package sqlstore

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "question marks kept",
			dialect: Dialect{Placeholder: Question},
			query:   "SELECT * FROM tasks WHERE id = ? AND status = ?",
			want:    "SELECT * FROM tasks WHERE id = ? AND status = ?",
		},
		{
			name:    "dollar numbering",
			dialect: Dialect{Placeholder: Dollar},
			query:   "UPDATE tasks SET status = ?, closed_at = ? WHERE id = ?",
			want:    "UPDATE tasks SET status = $1, closed_at = $2 WHERE id = $3",
		},
		{
			name:    "no placeholders",
			dialect: Dialect{Placeholder: Dollar},
			query:   "SELECT COUNT(*) FROM projects",
			want:    "SELECT COUNT(*) FROM projects",
		},
		{
			name:    "multibyte text survives",
			dialect: Dialect{Placeholder: Dollar},
			query:   "SELECT 'zażółć' WHERE name = ?",
			want:    "SELECT 'zażółć' WHERE name = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.query); got != tt.want {
				t.Fatalf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueViolationWithoutMatcher(t *testing.T) {
	if (Dialect{}).uniqueViolation(nil) {
		t.Fatalf("dialect without matcher must not report violations")
	}
}
