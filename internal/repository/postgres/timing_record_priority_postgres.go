package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

var timingRecordPriorityMapping = dbaccess.MustMapping(
	dbaccess.Col("key", func(p *model.TimingRecordPriority) any { return &p.Key }),
	dbaccess.Col("display_code", func(p *model.TimingRecordPriority) any { return &p.DisplayCode }),
	dbaccess.Col("description", func(p *model.TimingRecordPriority) any { return &p.Description }),
	dbaccess.Col("sort_value", func(p *model.TimingRecordPriority) any { return &p.SortValue }),
	dbaccess.Col("internal_code", func(p *model.TimingRecordPriority) any { return &p.InternalCode }),
	dbaccess.Col("system_flag", func(p *model.TimingRecordPriority) any { return &p.SystemFlag }),
	dbaccess.Col("deleted_flag", func(p *model.TimingRecordPriority) any { return &p.DeletedFlag }),
	dbaccess.Col("last_modified_utc", func(p *model.TimingRecordPriority) any { return &p.LastModifiedUTC }),
)

var timingRecordPriorityProc = dbaccess.PagedProcedure{
	Find:               "timing_record_priority_find",
	Count:              "timing_record_priority_count",
	RequiredExactMatch: []string{"display_code"},
}

var (
	timingRecordPriorityGetSQL    = selectByKey("timing_record_priority", timingRecordPriorityMapping, "deleted_flag")
	timingRecordPriorityByCodeSQL = selectByName("timing_record_priority", timingRecordPriorityMapping, "display_code")
	timingRecordPriorityExistsSQL = existsByName("timing_record_priority", "display_code")
	timingRecordPriorityInsertSQL = procCall("timing_record_priority_insert", 10)
	timingRecordPriorityUpdateSQL = procCall("timing_record_priority_update", 10)
	timingRecordPriorityDeleteSQL = procCall("timing_record_priority_delete", 5)
)

type timingRecordPriorityRepository struct{ exec *dbaccess.Executor }

func NewTimingRecordPriorityRepository(exec *dbaccess.Executor) repository.TimingRecordPriorityRepository {
	return &timingRecordPriorityRepository{exec: exec}
}

func (r *timingRecordPriorityRepository) Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*model.TimingRecordPriority, error) {
	if err := repository.RequireKey("key", key); err != nil {
		return nil, err
	}
	return getOne(ctx, r.exec, "timing_record_priority.get", timingRecordPriorityMapping, timingRecordPriorityGetSQL, key, deleted.Arg())
}

func (r *timingRecordPriorityRepository) GetByName(ctx context.Context, displayCode *string) (*model.TimingRecordPriority, error) {
	if displayCode == nil {
		return nil, nil
	}
	return getOne(ctx, r.exec, "timing_record_priority.get_by_name", timingRecordPriorityMapping, timingRecordPriorityByCodeSQL, *displayCode)
}

func (r *timingRecordPriorityRepository) Find(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[model.TimingRecordPriority], error) {
	return findPage(ctx, r.exec, "timing_record_priority.find", timingRecordPriorityProc, timingRecordPriorityMapping, criteria, page)
}

func (r *timingRecordPriorityRepository) ExistsByName(ctx context.Context, displayCode string, ignoreKey query.Filter[uuid.UUID]) (bool, error) {
	if err := repository.RequireName("display_code", displayCode); err != nil {
		return false, err
	}
	return exists(ctx, r.exec, "timing_record_priority.exists_by_name", timingRecordPriorityExistsSQL, displayCode, ignoreKey.Arg())
}

func (r *timingRecordPriorityRepository) Insert(ctx context.Context, ac model.ActionContext, p model.TimingRecordPriority) (uuid.UUID, error) {
	if err := validateWrite(ac, p); err != nil {
		return uuid.Nil, err
	}
	args := append([]any{keyArg(p.Key), p.DisplayCode, p.Description, p.SortValue, p.InternalCode, p.SystemFlag}, auditArgs(ac)...)
	return callInsert(ctx, r.exec, "timing_record_priority.insert", timingRecordPriorityInsertSQL, args...)
}

func (r *timingRecordPriorityRepository) Update(ctx context.Context, ac model.ActionContext, p model.TimingRecordPriority) error {
	if err := repository.RequireKey("key", p.Key); err != nil {
		return err
	}
	if err := validateWrite(ac, p); err != nil {
		return err
	}
	args := append([]any{p.Key, p.DisplayCode, p.Description, p.SortValue, p.InternalCode, p.SystemFlag}, auditArgs(ac)...)
	return call(ctx, r.exec, "timing_record_priority.update", timingRecordPriorityUpdateSQL, args...)
}

func (r *timingRecordPriorityRepository) Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error {
	if err := repository.RequireKey("key", key); err != nil {
		return err
	}
	if err := repository.Validate(ac); err != nil {
		return err
	}
	return call(ctx, r.exec, "timing_record_priority.delete", timingRecordPriorityDeleteSQL, append([]any{key}, auditArgs(ac)...)...)
}
