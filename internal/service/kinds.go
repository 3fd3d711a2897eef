package service

import (
	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/schema"
)

// Kind 描述一种资源类型：URL 段、展示名称、排序方式以及创建/更新的校验规则。
type Kind struct {
	Name       string
	Label      string
	Singular   string
	Submission bool
	Create     *schema.Schema
	Update     *schema.Schema
}

// Ordered 返回列表查询的排序子句。
func (k Kind) Ordered() []string {
	if k.Submission {
		return []string{"created_at DESC", "id DESC"}
	}
	return []string{"sort_order ASC", "id ASC"}
}

// AdminCreatable 表示后台能否新建该类型。提交记录只能由公开表单产生。
func (k Kind) AdminCreatable() bool { return !k.Submission }

// PublicReadable 表示该类型能否通过公开接口读取。
func (k Kind) PublicReadable() bool { return !k.Submission }

var (
	PortfolioSchema = schema.New("portfolio",
		schema.String("title").Required("Title is required"),
		schema.String("category").Required("Category is required"),
		schema.String("src").Required("Image URL is required").Labeled("Image URL"),
		schema.Int("sort_order").Default(int64(0)),
	)

	PricingSchema = schema.New("pricing",
		schema.String("name").Required("Name is required"),
		schema.String("price").Required("Price is required"),
		schema.Text("description").Default(""),
		schema.StringList("features").Default([]string{}).Labeled("Features (one per line)"),
		schema.Bool("popular").Default(false),
		schema.Int("sort_order").Default(int64(0)),
	)

	TestimonialSchema = schema.New("testimonials",
		schema.String("name").Required("Name is required"),
		schema.String("role").Default(""),
		schema.String("image").Default("").Labeled("Image URL"),
		schema.Text("body").Required("Testimonial text is required").Labeled("Testimonial"),
		schema.Int("rating").Range(1, 5).Default(int64(5)),
		schema.Int("sort_order").Default(int64(0)),
	)

	SkillSchema = schema.New("skills",
		schema.String("name").Required("Name is required"),
		schema.Int("level").Range(0, 100).Required("Level is required").Labeled("Level (%)"),
		schema.Int("sort_order").Default(int64(0)),
	)

	EquipmentSchema = schema.New("equipment",
		schema.String("name").Required("Name is required"),
		schema.Text("description").Default(""),
		schema.Int("sort_order").Default(int64(0)),
	)

	AwardSchema = schema.New("awards",
		schema.String("year").Required("Year is required"),
		schema.String("title").Required("Title is required"),
		schema.String("category").Default(""),
		schema.Int("sort_order").Default(int64(0)),
	)

	BookingSchema = schema.New("bookings",
		schema.String("name").Required("Name is required"),
		schema.String("email").Required("Email is required").Email(),
		schema.String("phone").Default(""),
		schema.String("event_type").Default(""),
		schema.String("preferred_date").Nullable(),
		schema.Text("message").Default(""),
	)

	ContactSchema = schema.New("contacts",
		schema.String("name").Required("Name is required"),
		schema.String("email").Required("Email is required").Email(),
		schema.String("subject").Default(""),
		schema.Text("message").Required("Message is required"),
	)

	// SubmissionUpdateSchema 只允许后台修改处理状态与备注。
	SubmissionUpdateSchema = schema.New("submission",
		schema.String("status").OneOf(db.SubmissionStatuses...),
		schema.Text("admin_notes").Nullable().Labeled("Admin notes"),
	).Partial()
)

var (
	KindPortfolio = Kind{Name: "portfolio", Label: "Portfolio", Singular: "Portfolio item",
		Create: PortfolioSchema, Update: PortfolioSchema.Partial()}
	KindPricing = Kind{Name: "pricing", Label: "Pricing", Singular: "Pricing package",
		Create: PricingSchema, Update: PricingSchema.Partial()}
	KindTestimonials = Kind{Name: "testimonials", Label: "Testimonials", Singular: "Testimonial",
		Create: TestimonialSchema, Update: TestimonialSchema.Partial()}
	KindSkills = Kind{Name: "skills", Label: "Skills", Singular: "Skill",
		Create: SkillSchema, Update: SkillSchema.Partial()}
	KindEquipment = Kind{Name: "equipment", Label: "Equipment", Singular: "Equipment",
		Create: EquipmentSchema, Update: EquipmentSchema.Partial()}
	KindAwards = Kind{Name: "awards", Label: "Awards", Singular: "Award",
		Create: AwardSchema, Update: AwardSchema.Partial()}
	KindBookings = Kind{Name: "bookings", Label: "Bookings", Singular: "Booking", Submission: true,
		Create: BookingSchema, Update: SubmissionUpdateSchema}
	KindContacts = Kind{Name: "contacts", Label: "Messages", Singular: "Message", Submission: true,
		Create: ContactSchema, Update: SubmissionUpdateSchema}
)
