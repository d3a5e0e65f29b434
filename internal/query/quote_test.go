package query

import "testing"

func TestQuote(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		quoteChar string
		want      string
	}{
		{
			name:      "bare token passes through",
			value:     "History",
			quoteChar: "'",
			want:      "History",
		},
		{
			name:      "digits and allowed symbols pass through",
			value:     "title_t^100",
			quoteChar: "'",
			want:      "title_t^100",
		},
		{
			name:      "hyphen and dollar pass through",
			value:     "pre-$release",
			quoteChar: "'",
			want:      "pre-$release",
		},
		{
			name:      "whitespace forces quoting",
			value:     "dark matter",
			quoteChar: "'",
			want:      "'dark matter'",
		},
		{
			name:      "empty value is quoted",
			value:     "",
			quoteChar: "'",
			want:      "''",
		},
		{
			name:      "single quotes escaped",
			value:     "o'brien",
			quoteChar: "'",
			want:      `'o\'brien'`,
		},
		{
			name:      "double quotes escaped",
			value:     `say "hi"`,
			quoteChar: `"`,
			want:      `"say \"hi\""`,
		},
		{
			name:      "both quote kinds escaped regardless of wrapper",
			value:     `mixed '"`,
			quoteChar: "'",
			want:      `'mixed \'\"'`,
		},
		{
			name:      "colon forces quoting",
			value:     "field:value",
			quoteChar: "'",
			want:      "'field:value'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.value, tt.quoteChar); got != tt.want {
				t.Errorf("Quote(%q, %q) = %q, want %q", tt.value, tt.quoteChar, got, tt.want)
			}
		})
	}
}
