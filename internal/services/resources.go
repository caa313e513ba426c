package services

import (
	"go.uber.org/zap"

	"fitness-portal/internal/collection"
	"fitness-portal/internal/dto"
)

// ResourceRegistry - сервисы ресурсов по ключу раздела (members, packages, ...).
type ResourceRegistry map[string]ResourceServiceInterface

func (r ResourceRegistry) Get(key string) (ResourceServiceInterface, bool) {
	svc, ok := r[key]
	return svc, ok
}

func NewResourceRegistry(api collection.API, validate collection.Validator, bus Publisher, logger *zap.Logger) ResourceRegistry {
	logger = logger.Named("Resource")
	registry := ResourceRegistry{}
	add := func(svc ResourceServiceInterface) { registry[svc.Key()] = svc }

	add(NewResourceService(Resource[dto.PackageDTO]{
		Key: "packages", Title: "Gói tập", Endpoint: "/Package",
		Decode: dto.DecodePackage, Columns: dto.PackageColumns, Fields: dto.PackageFields,
		NewForm: func(bool) interface{} { return &dto.PackageFormDTO{} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.MemberDTO]{
		Key: "members", Title: "Hội viên", Endpoint: "/Member",
		Decode: dto.DecodeMember, Columns: dto.MemberColumns, Fields: dto.MemberFields,
		NewForm: func(bool) interface{} { return &dto.MemberFormDTO{IsActive: true} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.TrainerDTO]{
		Key: "trainers", Title: "Huấn luyện viên", Endpoint: "/Trainer",
		Decode: dto.DecodeTrainer, Columns: dto.TrainerColumns, Fields: dto.TrainerFields,
		NewForm: func(bool) interface{} { return &dto.TrainerFormDTO{IsActive: true} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.StaffDTO]{
		Key: "staff", Title: "Nhân viên", Endpoint: "/Staff",
		Decode: dto.DecodeStaff, Columns: dto.StaffColumns, Fields: dto.StaffFields,
		NewForm: func(bool) interface{} { return &dto.StaffFormDTO{} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.EquipmentDTO]{
		Key: "equipment", Title: "Thiết bị", Endpoint: "/Equipment",
		Decode: dto.DecodeEquipment, Columns: dto.EquipmentColumns, Fields: dto.EquipmentFields,
		NewForm: func(bool) interface{} { return &dto.EquipmentFormDTO{Status: dto.EquipmentAvailable, Quantity: 1} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.VoucherDTO]{
		Key: "vouchers", Title: "Mã giảm giá", Endpoint: "/discountcode",
		Decode: dto.DecodeVoucher, Columns: dto.VoucherColumns, Fields: dto.VoucherFields,
		NewForm: func(bool) interface{} { return &dto.VoucherFormDTO{IsActive: true} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.TimeSlotDTO]{
		Key: "timeslots", Title: "Khung giờ", Endpoint: "/TimeSlot",
		Decode: dto.DecodeTimeSlot, Columns: dto.TimeSlotColumns, Fields: dto.TimeSlotFields,
		NewForm: func(bool) interface{} { return &dto.TimeSlotFormDTO{} },
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.RepairReportDTO]{
		Key: "repairs", Title: "Báo cáo sửa chữa", Endpoint: "/EquipmentRepairReport",
		Decode: dto.DecodeRepairReport, Columns: dto.RepairReportColumns, Fields: dto.RepairReportFields,
		NewForm:  func(bool) interface{} { return &dto.RepairReportFormDTO{} },
		Workflow: &dto.RepairWorkflow,
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.MaintenanceDTO]{
		Key: "maintenance", Title: "Lịch bảo trì", Endpoint: "/MaintenanceSchedule",
		Decode: dto.DecodeMaintenance, Columns: dto.MaintenanceColumns, Fields: dto.MaintenanceFields,
		NewForm:  func(bool) interface{} { return &dto.MaintenanceFormDTO{} },
		Workflow: &dto.MaintenanceWorkflow,
	}, api, validate, bus, logger))

	add(NewResourceService(Resource[dto.UserAccountDTO]{
		Key: "users", Title: "Tài khoản", Endpoint: "/Admin/users",
		Decode: dto.DecodeUserAccount, Columns: dto.UserAccountColumns, Fields: dto.UserAccountFields,
		NewForm: func(editing bool) interface{} {
			if editing {
				return &dto.UserAccountFormDTO{}
			}
			return &dto.NewUserAccountFormDTO{UserAccountFormDTO: dto.UserAccountFormDTO{IsActive: true}}
		},
	}, api, validate, bus, logger))

	return registry
}
