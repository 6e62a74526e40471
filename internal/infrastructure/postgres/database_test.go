package postgres

import "testing"

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "parameterized query untouched",
			query: "SELECT id FROM bank_accounts WHERE user_id = $1",
			want:  "SELECT id FROM bank_accounts WHERE user_id = $1",
		},
		{
			name:  "string literal masked",
			query: "SELECT id FROM users WHERE email = 'jane@example.com'",
			want:  "SELECT id FROM users WHERE email = '?'",
		},
		{
			name:  "numeric literal masked",
			query: "UPDATE transfers SET amount = 25.50",
			want:  "UPDATE transfers SET amount = ?",
		},
		{
			name:  "escaped quote inside literal",
			query: "SELECT 1 FROM users WHERE last_name = 'O''Brien'",
			want:  "SELECT ? FROM users WHERE last_name = '?'",
		},
		{
			name:  "placeholder digits kept",
			query: "INSERT INTO transfers (id, amount) VALUES ($1, $2)",
			want:  "INSERT INTO transfers (id, amount) VALUES ($1, $2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeQuery(tt.query)
			if got != tt.want {
				t.Errorf("sanitizeQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtractSQLVerb(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT * FROM users", "SELECT"},
		{"  insert into transfers VALUES ($1)", "INSERT"},
		{"COMMIT", "COMMIT"},
	}

	for _, tt := range tests {
		if got := extractSQLVerb(tt.query); got != tt.want {
			t.Errorf("extractSQLVerb(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
