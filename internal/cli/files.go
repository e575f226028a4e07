package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcloud/internal/filex"
	"github.com/dmitrijs2005/gophcloud/internal/models"
	"github.com/dmitrijs2005/gophcloud/internal/vault"
)

// folderArg maps "root" and "/" to the root folder.
func folderArg(s string) *string {
	if s == "root" || s == "/" {
		return nil
	}
	return &s
}

func (a *App) printRecord(r models.FileRecord, indent string) {
	fmt.Fprintf(a.out, "%s%-40s %-8s %9s %-10s %s\n", indent, r.ID, r.Kind, r.Size, r.Date, r.Name)
}

func (a *App) list(ctx context.Context, args []string) error {
	parent := a.cwd
	if len(args) > 0 {
		parent = folderArg(args[0])
	}

	records, err := a.vault.Load(ctx, a.user)
	if err != nil {
		return err
	}
	for _, r := range models.ChildrenOf(records, parent) {
		if !r.IsTrashed() {
			a.printRecord(r, "")
		}
	}
	return nil
}

func (a *App) tree(ctx context.Context, _ []string) error {
	records, err := a.vault.Load(ctx, a.user)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var walk func(parent *string, depth int)
	walk = func(parent *string, depth int) {
		for _, r := range models.ChildrenOf(records, parent) {
			if r.IsTrashed() || seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			a.printRecord(r, strings.Repeat("  ", depth))
			if r.IsFolder() {
				id := r.ID
				walk(&id, depth+1)
			}
		}
	}
	walk(nil, 0)
	return nil
}

func (a *App) changeDir(ctx context.Context, args []string) error {
	records, err := a.vault.Load(ctx, a.user)
	if err != nil {
		return err
	}

	switch target := args[0]; target {
	case "..":
		if a.cwd == nil {
			return nil
		}
		if i := models.FindByID(records, *a.cwd); i >= 0 {
			a.cwd = records[i].ParentID
		} else {
			a.cwd = nil
		}
	case "root", "/":
		a.cwd = nil
	default:
		i := models.FindByID(records, target)
		if i < 0 || !records[i].IsFolder() || records[i].IsTrashed() {
			return fmt.Errorf("%s is not a folder", target)
		}
		a.cwd = &target
	}
	return nil
}

func (a *App) printDir(ctx context.Context, _ []string) error {
	records, err := a.vault.Load(ctx, a.user)
	if err != nil {
		return err
	}
	var names []string
	for _, f := range vault.Path(records, a.cwd) {
		names = append(names, f.Name)
	}
	fmt.Fprintln(a.out, "/"+strings.Join(names, "/"))
	return nil
}

func (a *App) put(ctx context.Context, args []string) error {
	name, contentType, data, err := filex.ReadUpload(args[0])
	if err != nil {
		return err
	}
	rec, err := a.vault.Upload(ctx, a.user, vault.UploadRequest{
		Name:        name,
		ParentID:    a.cwd,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s (%s, %d versions)\n", rec.ID, rec.Size, len(rec.Versions))
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	rec, data, err := a.vault.Download(ctx, a.user, args[0])
	if err != nil {
		return err
	}
	path := rec.Name
	if len(args) > 1 {
		path = args[1]
	}
	if err := filex.WriteDownload(path, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s to %s\n", rec.Name, path)
	return nil
}

func (a *App) mkdir(ctx context.Context, args []string) error {
	f, err := a.vault.CreateFolder(ctx, a.user, words(args), a.cwd)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Created folder", f.ID)
	return nil
}

func (a *App) link(ctx context.Context, args []string) error {
	r, err := a.vault.AddLink(ctx, a.user, args[0], a.cwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s %s\n", r.Name, r.ID)
	return nil
}

func (a *App) move(ctx context.Context, args []string) error {
	return a.vault.Move(ctx, a.user, args[0], folderArg(args[1]))
}

func (a *App) rename(ctx context.Context, args []string) error {
	return a.vault.Rename(ctx, a.user, args[0], words(args[1:]))
}

func (a *App) tag(ctx context.Context, args []string) error {
	return a.vault.Tag(ctx, a.user, args[0], args[1:])
}

func (a *App) describe(ctx context.Context, args []string) error {
	return a.vault.Describe(ctx, a.user, args[0], words(args[1:]))
}

func (a *App) trash(ctx context.Context, args []string) error {
	return a.vault.Trash(ctx, a.user, args[0])
}

func (a *App) restore(ctx context.Context, args []string) error {
	return a.vault.Restore(ctx, a.user, args[0])
}

func (a *App) purge(ctx context.Context, args []string) error {
	return a.vault.Purge(ctx, a.user, args[0])
}

func (a *App) bin(ctx context.Context, _ []string) error {
	trashed, err := a.vault.Trashed(ctx, a.user)
	if err != nil {
		return err
	}
	for _, r := range trashed {
		a.printRecord(r, "")
	}
	return nil
}

func (a *App) sweep(ctx context.Context, _ []string) error {
	n, err := a.janitor.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Purged %d expired items\n", n)
	return nil
}

func (a *App) versions(ctx context.Context, args []string) error {
	records, err := a.vault.Load(ctx, a.user)
	if err != nil {
		return err
	}
	i := models.FindByID(records, args[0])
	if i < 0 {
		return fmt.Errorf("file %s not found", args[0])
	}
	r := records[i]
	fmt.Fprintf(a.out, "current  %-10s %s\n", r.Date, r.Size)
	for _, v := range r.Versions {
		fmt.Fprintf(a.out, "%s  %-10s %s\n", v.ID, v.Date, v.Size)
	}
	return nil
}

func (a *App) revert(ctx context.Context, args []string) error {
	rec, err := a.vault.RestoreVersion(ctx, a.user, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Restored %s (%s)\n", rec.Name, rec.Size)
	return nil
}

func (a *App) usage(ctx context.Context, _ []string) error {
	u, err := a.vault.Usage(ctx, a.user)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "used   %s\n", models.FormatSize(u.Total))
	if q := a.vault.Quota(); q > 0 {
		fmt.Fprintf(a.out, "quota  %s (%.1f%%)\n", models.FormatSize(q), float64(u.Total)*100/float64(q))
	}
	for _, k := range []models.Kind{models.KindImage, models.KindVideo, models.KindDocument} {
		fmt.Fprintf(a.out, "%-6s %s\n", k, models.FormatSize(u.ByKind[k]))
	}
	fmt.Fprintf(a.out, "trash  %s\n", models.FormatSize(u.Trash))
	return nil
}
