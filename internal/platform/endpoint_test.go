package platform

import "testing"

func TestDocumentBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		database   string
		collection string
		want       string
		wantErr    bool
	}{
		{
			name:       "Plain",
			endpoint:   "http://localhost:8529",
			database:   "test_db",
			collection: "users",
			want:       "http://localhost:8529/_db/test_db/_api/document/users/",
		},
		{
			name:       "Default Database",
			endpoint:   "http://localhost:8529/",
			collection: "users",
			want:       "http://localhost:8529/_db/_system/_api/document/users/",
		},
		{
			name:       "Default Endpoint",
			database:   "d",
			collection: "c",
			want:       "http://localhost:8529/_db/d/_api/document/c/",
		},
		{
			name:       "No Scheme",
			endpoint:   "db.internal:8529",
			database:   "d",
			collection: "c",
			want:       "http://db.internal:8529/_db/d/_api/document/c/",
		},
		{
			name:       "Behind A Prefix",
			endpoint:   "https://proxy.example.com/arango/",
			database:   "d",
			collection: "c",
			want:       "https://proxy.example.com/arango/_db/d/_api/document/c/",
		},
		{
			name:       "Escaped Names",
			endpoint:   "http://localhost:8529",
			database:   "my db",
			collection: "a/b",
			want:       "http://localhost:8529/_db/my%20db/_api/document/a%2Fb/",
		},
		{
			name:     "Missing Collection",
			endpoint: "http://localhost:8529",
			wantErr:  true,
		},
		{
			name:       "Unsupported Scheme",
			endpoint:   "tcp://localhost:8529",
			collection: "c",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DocumentBaseURL(tt.endpoint, tt.database, tt.collection)
			if (err != nil) != tt.wantErr {
				t.Errorf("DocumentBaseURL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("DocumentBaseURL() = %v, want %v", got, tt.want)
			}
		})
	}
}
