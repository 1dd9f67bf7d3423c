package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGDrive_Probe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		wantOK     bool
		wantDetail string
	}{
		{name: "service account", content: serviceAccountJSON, wantOK: true, wantDetail: "deck@demo.iam.gserviceaccount.com"},
		{name: "not json", content: s3Env, wantDetail: "not a JSON key file"},
		{name: "oauth client", content: `{"type":"authorized_user","client_email":"x","private_key":"y"}`, wantDetail: "authorized_user"},
		{name: "missing key", content: `{"type":"service_account","client_email":"x"}`, wantDetail: "lacks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := NewGDrive().Probe(writeFile(t, "creds.json", tt.content))
			if st.Available != tt.wantOK || !strings.Contains(st.Detail, tt.wantDetail) {
				t.Errorf("Probe() = %+v, want available=%v detail containing %q", st, tt.wantOK, tt.wantDetail)
			}
		})
	}
}

func TestGDrive_ProbeMissingFile(t *testing.T) {
	t.Parallel()

	if st := NewGDrive().Probe("/nonexistent/creds.json"); st.Available {
		t.Errorf("Probe() = %+v, want unavailable", st)
	}
}

func TestGDrive_Upload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		req         Request
		existing    map[string]string
		wantParent  string
		wantCreated []string
	}{
		{name: "root", req: Request{}, wantParent: ""},
		{name: "folder id", req: Request{FolderID: "abc", FolderName: "ignored"}, wantParent: "abc"},
		{name: "existing folder", req: Request{FolderName: "Sermons"}, existing: map[string]string{"Sermons": "f-9"}, wantParent: "f-9"},
		{name: "created folder", req: Request{FolderName: "Sermons"}, wantParent: "folder-Sermons", wantCreated: []string{"Sermons"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeDrive()
			for k, v := range tt.existing {
				api.folders[k] = v
			}
			creds := writeFile(t, "sa.json", serviceAccountJSON)
			req := tt.req
			req.Path = writeFile(t, "deck.pptx", "PK-deck")
			req.FileName = "deck.pptx"

			loc, err := gdriveWith(api, nil).Upload(context.Background(), creds, &req)
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}

			meta := api.files[0]
			var parent string
			if len(meta.Parents) > 0 {
				parent = meta.Parents[0]
			}
			if parent != tt.wantParent {
				t.Errorf("parent = %q, want %q", parent, tt.wantParent)
			}
			if strings.Join(api.created, ",") != strings.Join(tt.wantCreated, ",") {
				t.Errorf("created folders = %v, want %v", api.created, tt.wantCreated)
			}
			if meta.MimeType != MIMEType("deck.pptx") {
				t.Errorf("MimeType = %q", meta.MimeType)
			}
			if api.content[0] != "PK-deck" {
				t.Errorf("uploaded content = %q", api.content[0])
			}
			if loc.ID != "file-1" || loc.URL == "" || loc.DownloadURL == "" || loc.Size != 7 || len(loc.Checksum) != 64 {
				t.Errorf("Location = %+v", loc)
			}
		})
	}
}

func TestGDrive_UploadErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name    string
		api     *fakeDrive
		apiErr  error
		creds   string
		req     Request
		wantErr error
	}{
		{name: "bad credentials", api: newFakeDrive(), creds: s3Env, wantErr: ErrCredentials},
		{name: "service init fails", api: newFakeDrive(), apiErr: boom, creds: serviceAccountJSON, wantErr: ErrCredentials},
		{name: "folder lookup fails", api: &fakeDrive{findErr: boom}, creds: serviceAccountJSON, req: Request{FolderName: "x"}, wantErr: ErrFolderFailed},
		{name: "upload fails", api: &fakeDrive{uploadErr: boom, folders: map[string]string{}}, creds: serviceAccountJSON, wantErr: ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := tt.req
			req.Path = writeFile(t, "deck.pdf", "%PDF")
			req.FileName = "deck.pdf"
			_, err := gdriveWith(tt.api, tt.apiErr).Upload(context.Background(), writeFile(t, "c", tt.creds), &req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFolderQuery(t *testing.T) {
	t.Parallel()

	got := folderQuery(`Pastor's \ Notes`)
	want := `name='Pastor\'s \\ Notes' and mimeType='application/vnd.google-apps.folder' and trashed=false`
	if got != want {
		t.Errorf("folderQuery() = %q, want %q", got, want)
	}
}
