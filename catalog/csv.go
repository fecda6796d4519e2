package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/slug"
)

const maxImportBytes = 10 << 20

var csvColumns = []string{
	"name", "slug", "sku", "price", "original_price", "stock",
	"category", "sub_category", "brand", "sub_brand",
	"short_description", "description", "warranty", "images", "featured", "active",
}

var requiredCSVColumns = []string{"name", "price", "category", "brand"}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

func (res *ImportResult) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// refIndex resolves the category/brand names or slugs used in CSV files.
type refIndex struct {
	categories    map[string]uint
	subCategories map[string]uint
	brands        map[string]uint
	subBrands     map[string]uint

	names map[Kind]map[uint]string
}

func newRefIndex() *refIndex {
	return &refIndex{
		categories:    map[string]uint{},
		subCategories: map[string]uint{},
		brands:        map[string]uint{},
		subBrands:     map[string]uint{},
		names: map[Kind]map[uint]string{
			KindCategory:    {},
			KindSubCategory: {},
			KindBrand:       {},
			KindSubBrand:    {},
		},
	}
}

func (idx *refIndex) add(kind Kind, id uint, name, s string) {
	m := idx.byKind(kind)
	m[strings.ToLower(strings.TrimSpace(name))] = id
	m[s] = id
	idx.names[kind][id] = s
}

func (idx *refIndex) byKind(kind Kind) map[string]uint {
	switch kind {
	case KindCategory:
		return idx.categories
	case KindSubCategory:
		return idx.subCategories
	case KindBrand:
		return idx.brands
	default:
		return idx.subBrands
	}
}

func (idx *refIndex) lookup(kind Kind, value string) (uint, bool) {
	m := idx.byKind(kind)

	if id, ok := m[strings.ToLower(strings.TrimSpace(value))]; ok {
		return id, true
	}

	id, ok := m[slug.Make(value)]

	return id, ok
}

// slugOf is the export form of a reference.
func (idx *refIndex) slugOf(kind Kind, id *uint) string {
	if id == nil {
		return ""
	}

	return idx.names[kind][*id]
}

type csvHeader map[string]int

func parseCSVHeader(record []string) (csvHeader, error) {
	header := csvHeader{}
	for i, col := range record {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range requiredCSVColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, pandey.Invalid("file", "missing columns: "+strings.Join(missing, ", "))
	}

	return header, nil
}

func (h csvHeader) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}

// parseProductRow builds a product from one CSV record. Optional numeric and
// boolean cells fall back to defaults when empty.
func parseProductRow(h csvHeader, record []string, idx *refIndex) (*Product, error) {
	p := &Product{
		Name:             h.get(record, "name"),
		SKU:              h.get(record, "sku"),
		ShortDescription: h.get(record, "short_description"),
		Description:      h.get(record, "description"),
		Warranty:         h.get(record, "warranty"),
		IsActive:         true,
	}

	p.Slug = slugFor("", ptr(h.get(record, "slug")), p.Name)

	var err error

	if p.Price, err = parseInt64Cell(h.get(record, "price"), "price", true); err != nil {
		return nil, err
	}

	if p.OriginalPrice, err = parseInt64Cell(h.get(record, "original_price"), "original_price", false); err != nil {
		return nil, err
	}

	stock, err := parseInt64Cell(h.get(record, "stock"), "stock", false)
	if err != nil {
		return nil, err
	}
	p.Stock = int(stock)

	categoryID, ok := idx.lookup(KindCategory, h.get(record, "category"))
	if !ok {
		return nil, fmt.Errorf("unknown category %q", h.get(record, "category"))
	}
	p.CategoryID = categoryID

	brandID, ok := idx.lookup(KindBrand, h.get(record, "brand"))
	if !ok {
		return nil, fmt.Errorf("unknown brand %q", h.get(record, "brand"))
	}
	p.BrandID = brandID

	if v := h.get(record, "sub_category"); v != "" {
		id, ok := idx.lookup(KindSubCategory, v)
		if !ok {
			return nil, fmt.Errorf("unknown sub category %q", v)
		}
		p.SubCategoryID = &id
	}

	if v := h.get(record, "sub_brand"); v != "" {
		id, ok := idx.lookup(KindSubBrand, v)
		if !ok {
			return nil, fmt.Errorf("unknown sub brand %q", v)
		}
		p.SubBrandID = &id
	}

	if v := h.get(record, "images"); v != "" {
		for _, image := range strings.Split(v, "|") {
			if image = strings.TrimSpace(image); image != "" {
				p.Images = append(p.Images, image)
			}
		}
	}

	if p.IsFeatured, err = parseBoolCell(h.get(record, "featured"), "featured", false); err != nil {
		return nil, err
	}

	if p.IsActive, err = parseBoolCell(h.get(record, "active"), "active", true); err != nil {
		return nil, err
	}

	return p, nil
}

func parseInt64Cell(raw, col string, required bool) (int64, error) {
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s is required", col)
		}
		return 0, nil
	}

	v, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", col)
	}

	return v, nil
}

func parseBoolCell(raw, col string, fallback bool) (bool, error) {
	switch strings.ToLower(raw) {
	case "":
		return fallback, nil
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}

	return false, fmt.Errorf("%s must be true or false", col)
}

func ptr[T any](v T) *T {
	return &v
}

func productRecord(p *Product, idx *refIndex) []string {
	return []string{
		p.Name,
		p.Slug,
		p.SKU,
		strconv.FormatInt(p.Price, 10),
		strconv.FormatInt(p.OriginalPrice, 10),
		strconv.Itoa(p.Stock),
		idx.slugOf(KindCategory, &p.CategoryID),
		idx.slugOf(KindSubCategory, p.SubCategoryID),
		idx.slugOf(KindBrand, &p.BrandID),
		idx.slugOf(KindSubBrand, p.SubBrandID),
		p.ShortDescription,
		p.Description,
		p.Warranty,
		strings.Join(p.Images, "|"),
		strconv.FormatBool(p.IsFeatured),
		strconv.FormatBool(p.IsActive),
	}
}

// writeProductsCSV writes a header row followed by one row per product.
func writeProductsCSV(w io.Writer, products []*Product, idx *refIndex) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return err
	}

	for _, p := range products {
		if err := cw.Write(productRecord(p, idx)); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// ProductImporter moves products in and out of CSV files.
type ProductImporter struct {
	repos    Repositories
	products pandey.Service[*Product]
	logger   pandey.LoggerService
}

func NewProductImporter(repos Repositories, products pandey.Service[*Product], logger pandey.LoggerService) *ProductImporter {
	return &ProductImporter{repos: repos, products: products, logger: logger}
}

func (im *ProductImporter) loadIndex(ctx context.Context) (*refIndex, error) {
	idx := newRefIndex()
	all := pandey.ListQuery{}

	categories, err := im.repos.Categories.FindMany(ctx, all)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		idx.add(KindCategory, c.ID, c.Name, c.Slug)
	}

	subCategories, err := im.repos.SubCategories.FindMany(ctx, all)
	if err != nil {
		return nil, err
	}
	for _, c := range subCategories {
		idx.add(KindSubCategory, c.ID, c.Name, c.Slug)
	}

	brands, err := im.repos.Brands.FindMany(ctx, all)
	if err != nil {
		return nil, err
	}
	for _, b := range brands {
		idx.add(KindBrand, b.ID, b.Name, b.Slug)
	}

	subBrands, err := im.repos.SubBrands.FindMany(ctx, all)
	if err != nil {
		return nil, err
	}
	for _, b := range subBrands {
		idx.add(KindSubBrand, b.ID, b.Name, b.Slug)
	}

	return idx, nil
}

// Import upserts products by slug. A bad row is reported and skipped.
func (im *ProductImporter) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	idx, err := im.loadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog references: %w", err)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headerRecord, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pandey.Invalid("file", "is empty")
		}
		return nil, pandey.Invalid("file", fmt.Sprintf("unreadable CSV: %v", err))
	}

	header, err := parseCSVHeader(headerRecord)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []ImportRowError{}}

	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Message: err.Error()})
			continue
		}

		created, err := im.importRow(ctx, header, record, idx)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Message: err.Error()})
			continue
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	im.logger.Info("Imported products",
		"created", result.Created,
		"updated", result.Updated,
		"failed", len(result.Errors),
	)

	return result, nil
}

func (im *ProductImporter) importRow(ctx context.Context, header csvHeader, record []string, idx *refIndex) (bool, error) {
	p, err := parseProductRow(header, record, idx)
	if err != nil {
		return false, err
	}

	existing, err := im.repos.Products.FindOneBySlug(ctx, p.Slug)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.Specifications = existing.Specifications
		if len(p.Images) == 0 {
			p.Images = existing.Images
		}

		_, err = im.products.UpdateOne(ctx, p.ID, p)
		return false, err
	case errors.Is(err, pandey.ErrRecordNotFound):
		_, err = im.products.CreateOne(ctx, p)
		return true, err
	default:
		return false, err
	}
}

// Export writes every product as CSV.
func (im *ProductImporter) Export(ctx context.Context, w io.Writer) error {
	idx, err := im.loadIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog references: %w", err)
	}

	products, err := im.repos.Products.FindMany(ctx, pandey.ListQuery{Order: "products.id ASC"})
	if err != nil {
		return err
	}

	return writeProductsCSV(w, products, idx)
}

func (im *ProductImporter) importHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(pandey.Invalid("file", "a CSV file is required")))
		return
	}
	defer file.Close()

	result, err := im.Import(r.Context(), file)
	if err != nil {
		pandey.RenderError(w, r, im.logger, "failed to import products", err)
		return
	}

	render.Render(w, r, result)
}

func (im *ProductImporter) exportHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)

	if err := im.Export(r.Context(), w); err != nil {
		im.logger.Error("failed to export products", "error", err)
	}
}
