package service

import (
	"context"

	"github.com/lenscraft/internal/db"
	"gorm.io/gorm"
)

// Collection 是去掉类型参数的仓储视图，供按 URL 段分发的处理器使用。
type Collection interface {
	Kind() Kind
	List(ctx context.Context, filter ListFilter) (any, error)
	Get(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, fields map[string]any) (any, error)
	Update(ctx context.Context, id string, patch map[string]any) (any, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter ListFilter) (int64, error)
	// Rows 与 Row 以 JSON 字段名为键返回记录，用于通用表格和表单。
	Rows(ctx context.Context, filter ListFilter) ([]map[string]any, error)
	Row(ctx context.Context, id string) (map[string]any, error)
}

type erased[T any] struct {
	repo *Repository[T]
}

func (e erased[T]) Kind() Kind { return e.repo.Kind() }

func (e erased[T]) List(ctx context.Context, filter ListFilter) (any, error) {
	items, err := e.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (e erased[T]) Get(ctx context.Context, id string) (any, error) {
	item, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (e erased[T]) Create(ctx context.Context, fields map[string]any) (any, error) {
	item, err := e.repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (e erased[T]) Update(ctx context.Context, id string, patch map[string]any) (any, error) {
	item, err := e.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (e erased[T]) Delete(ctx context.Context, id string) error {
	return e.repo.Delete(ctx, id)
}

func (e erased[T]) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return e.repo.Count(ctx, filter)
}

func (e erased[T]) Rows(ctx context.Context, filter ListFilter) ([]map[string]any, error) {
	items, err := e.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(items))
	for i := range items {
		row, err := recordFields(&items[i])
		if err != nil {
			return nil, storeError("list", e.repo.kind.Name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e erased[T]) Row(ctx context.Context, id string) (map[string]any, error) {
	item, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	row, err := recordFields(item)
	if err != nil {
		return nil, storeError("get", e.repo.kind.Name, err)
	}
	return row, nil
}

// Catalog 汇总全部资源类型的仓储。
type Catalog struct {
	Portfolio    *Repository[db.PortfolioItem]
	Pricing      *Repository[db.PricingPackage]
	Testimonials *Repository[db.Testimonial]
	Skills       *Repository[db.Skill]
	Equipment    *Repository[db.Equipment]
	Awards       *Repository[db.Award]
	Bookings     *Repository[db.BookingSubmission]
	Contacts     *Repository[db.ContactSubmission]

	order       []string
	collections map[string]Collection
}

// NewCatalog 为每种资源类型实例化仓储。
func NewCatalog(gdb *gorm.DB) *Catalog {
	c := &Catalog{
		Portfolio:    NewRepository[db.PortfolioItem](gdb, KindPortfolio),
		Pricing:      NewRepository[db.PricingPackage](gdb, KindPricing),
		Testimonials: NewRepository[db.Testimonial](gdb, KindTestimonials),
		Skills:       NewRepository[db.Skill](gdb, KindSkills),
		Equipment:    NewRepository[db.Equipment](gdb, KindEquipment),
		Awards:       NewRepository[db.Award](gdb, KindAwards),
		Bookings:     NewRepository[db.BookingSubmission](gdb, KindBookings),
		Contacts:     NewRepository[db.ContactSubmission](gdb, KindContacts),
	}
	c.register(
		erased[db.PortfolioItem]{c.Portfolio},
		erased[db.PricingPackage]{c.Pricing},
		erased[db.Testimonial]{c.Testimonials},
		erased[db.Skill]{c.Skills},
		erased[db.Equipment]{c.Equipment},
		erased[db.Award]{c.Awards},
		erased[db.BookingSubmission]{c.Bookings},
		erased[db.ContactSubmission]{c.Contacts},
	)
	return c
}

func (c *Catalog) register(collections ...Collection) {
	c.collections = make(map[string]Collection, len(collections))
	for _, col := range collections {
		name := col.Kind().Name
		c.order = append(c.order, name)
		c.collections[name] = col
	}
}

// Lookup 按 URL 段查找资源集合。
func (c *Catalog) Lookup(name string) (Collection, error) {
	col, ok := c.collections[name]
	if !ok {
		return nil, ErrUnknownKind
	}
	return col, nil
}

// Kinds 按注册顺序返回全部资源类型。
func (c *Catalog) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c.order))
	for _, name := range c.order {
		kinds = append(kinds, c.collections[name].Kind())
	}
	return kinds
}
