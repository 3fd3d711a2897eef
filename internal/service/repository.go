package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/schema"
	"gorm.io/gorm"
)

// ListFilter 描述列表/计数查询的可选条件。Status 只对提交记录有效，Limit 为 0 表示不限。
type ListFilter struct {
	Status string
	Limit  int
}

// Repository 为单一资源类型提供统一的增删改查，T 为对应的 gorm 模型。
// 传入的字段必须已经过 Kind 的 schema 校验。
type Repository[T any] struct {
	db   *gorm.DB
	kind Kind
}

// NewRepository 构造指定类型的仓储。
func NewRepository[T any](gdb *gorm.DB, kind Kind) *Repository[T] {
	return &Repository[T]{db: gdb, kind: kind}
}

// Kind 返回仓储对应的资源类型配置。
func (r *Repository[T]) Kind() Kind { return r.kind }

// List 按类型的排序规则返回全部记录。
func (r *Repository[T]) List(ctx context.Context, filter ListFilter) ([]T, error) {
	query, err := r.scoped(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, order := range r.kind.Ordered() {
		query = query.Order(order)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		return nil, storeError("list", r.kind.Name, err)
	}
	return items, nil
}

// Count 只执行 COUNT 查询，不加载记录。
func (r *Repository[T]) Count(ctx context.Context, filter ListFilter) (int64, error) {
	query, err := r.scoped(ctx, filter)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, storeError("count", r.kind.Name, err)
	}
	return total, nil
}

// Get 按 id 读取单条记录。
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("get", r.kind.Name, err)
	}
	return &item, nil
}

// Create 写入新记录并返回包含 id 与 created_at 的结果。
func (r *Repository[T]) Create(ctx context.Context, fields map[string]any) (*T, error) {
	item, err := decodeRecord[T](fields)
	if err != nil {
		return nil, storeError("create", r.kind.Name, err)
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, storeError("create", r.kind.Name, err)
	}
	return item, nil
}

// Update 把 patch 中出现的字段合并到已存储的记录上。空 patch 不写库，直接返回当前记录。
func (r *Repository[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}

	merged, err := mergeRecord(current, patch)
	if err != nil {
		return nil, storeError("update", r.kind.Name, err)
	}

	result := r.db.WithContext(ctx).Model(merged).Select("*").Omit("id", "created_at").Updates(merged)
	if result.Error != nil {
		return nil, storeError("update", r.kind.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return merged, nil
}

// Delete 删除记录；id 不存在时返回 ErrNotFound。
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return storeError("delete", r.kind.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) scoped(ctx context.Context, filter ListFilter) (*gorm.DB, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	status := strings.TrimSpace(filter.Status)
	if status == "" {
		return query, nil
	}
	if !r.kind.Submission {
		return nil, schema.NewValidationError("status", fmt.Sprintf("%s cannot be filtered by status", r.kind.Label))
	}
	if !slices.Contains(db.SubmissionStatuses, status) {
		return nil, schema.NewValidationError("status", "Status must be one of "+strings.Join(db.SubmissionStatuses, ", "))
	}
	return query.Where("status = ?", status), nil
}

// decodeRecord 通过模型的 JSON 标签把字段映射到结构体上。
func decodeRecord[T any](fields map[string]any) (*T, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	item := new(T)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return item, nil
}

func mergeRecord[T any](current *T, patch map[string]any) (*T, error) {
	fields, err := recordFields(current)
	if err != nil {
		return nil, err
	}
	for key, value := range patch {
		fields[key] = value
	}
	return decodeRecord[T](fields)
}

// recordFields 把模型转换为以 JSON 字段名为键的 map，供通用表格与表单使用。
func recordFields(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return fields, nil
}
