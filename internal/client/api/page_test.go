package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_UnmarshalBranches(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Page[int]
		wantErr bool
	}{
		{name: "bare list", in: ` [1,2,3]`, want: Page[int]{Count: 3, Results: []int{1, 2, 3}}},
		{name: "paginated", in: `{"count":5,"next":"n","previous":null,"results":[4]}`, want: Page[int]{Count: 5, Next: "n", Results: []int{4}}},
		{name: "empty list", in: `[]`, want: Page[int]{Results: []int{}}},
		{name: "object without results", in: `{"detail":"x"}`, wantErr: true},
		{name: "garbage", in: `"str"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Page[int]
			err := json.Unmarshal([]byte(tt.in), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}
