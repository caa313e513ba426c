package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/events"
	"fitness-portal/internal/integrations/gymapi"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/types"
)

const onePackage = `[{"id":1,"packageName":"Gói 10 buổi","durationInDays":30,"sessionCount":10,"includesPersonalTrainer":false,"price":800000}]`

func newRegistry(t *testing.T) (*upstream, ResourceRegistry, *recordingBus) {
	t.Helper()
	up, client := newUpstream(t)
	bus := &recordingBus{}
	return up, NewResourceRegistry(client, newTestValidator(t), bus, zap.NewNop()), bus
}

func TestRegistry_HasEveryResource(t *testing.T) {
	_, registry, _ := newRegistry(t)

	for _, key := range []string{"packages", "members", "trainers", "staff", "equipment", "vouchers", "timeslots", "repairs", "maintenance", "users"} {
		svc, ok := registry.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, key, svc.Key())
		assert.NotEmpty(t, svc.Columns(), key)
		assert.NotEmpty(t, svc.Fields(), key)
		assert.NotNil(t, svc.NewForm(false), key)
	}
	_, ok := registry.Get("orders")
	assert.False(t, ok)
}

func TestResourceService_ListFormatsPackageExample(t *testing.T) {
	up, registry, _ := newRegistry(t)
	up.on(http.MethodGet, "/Package", http.StatusOK, onePackage)
	packages, _ := registry.Get("packages")

	result, err := packages.List(context.Background(), types.Filter{Page: 1, Limit: 20})

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, []string{"Gói 10 buổi", "30 ngày", "10 buổi", "Không", "800.000 ₫"}, result.Rows[0].Cells())
	assert.Equal(t, uint64(1), result.Pagination.TotalCount)
}

func TestResourceService_ListSearchAndPages(t *testing.T) {
	up, registry, _ := newRegistry(t)
	up.on(http.MethodGet, "/Package", http.StatusOK, `{"items":[
		{"id":1,"name":"Yoga sáng","duration":30,"price":500000},
		{"id":2,"name":"Gym tự do","duration":30,"price":400000},
		{"id":3,"name":"Yoga tối","duration":60,"price":900000}]}`)
	packages, _ := registry.Get("packages")

	result, err := packages.List(context.Background(), types.Filter{Search: "yoga", Page: 2, Limit: 1})

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "3", result.Rows[0].RowID())
	assert.Equal(t, 2, result.Pagination.TotalPages)
}

func TestResourceService_ReloadIsIdempotent(t *testing.T) {
	up, registry, _ := newRegistry(t)
	up.on(http.MethodGet, "/Package", http.StatusOK, onePackage)
	packages, _ := registry.Get("packages")

	first, err := packages.All(context.Background(), "")
	require.NoError(t, err)
	second, err := packages.All(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResourceService_OverlappingListsShareOneGet(t *testing.T) {
	up, registry, _ := newRegistry(t)
	release := make(chan struct{})
	up.onWait(http.MethodGet, "/Package", release, onePackage)
	packages, _ := registry.Get("packages")
	ctx := gymapi.WithToken(context.Background(), "tok-manager")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := packages.List(ctx, types.Filter{Page: 1, Limit: 20})
			if assert.NoError(t, err) {
				assert.Len(t, result.Rows, 1)
			}
		}()
	}
	require.Eventually(t, func() bool { return up.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Len(t, up.callsTo(http.MethodGet), 1)
}

func TestResourceService_ListsWithDifferentTokensDoNotShare(t *testing.T) {
	up, registry, _ := newRegistry(t)
	release := make(chan struct{})
	up.onWait(http.MethodGet, "/Package", release, onePackage)
	packages, _ := registry.Get("packages")

	var wg sync.WaitGroup
	for _, token := range []string{"tok-a", "tok-b"} {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			_, err := packages.List(gymapi.WithToken(context.Background(), token), types.Filter{Page: 1, Limit: 20})
			assert.NoError(t, err)
		}(token)
	}
	require.Eventually(t, func() bool { return up.count() == 2 }, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	gets := up.callsTo(http.MethodGet)
	require.Len(t, gets, 2)
	assert.ElementsMatch(t, []string{"Bearer tok-a", "Bearer tok-b"}, []string{gets[0].Auth, gets[1].Auth})
}

func TestResourceService_GetMissingIsNotFound(t *testing.T) {
	up, registry, _ := newRegistry(t)
	up.on(http.MethodGet, "/Package", http.StatusOK, onePackage)
	packages, _ := registry.Get("packages")

	_, err := packages.Get(context.Background(), "42")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestResourceService_CreateInvalidMakesNoCalls(t *testing.T) {
	up, registry, bus := newRegistry(t)
	packages, _ := registry.Get("packages")

	_, err := packages.Create(context.Background(), &dto.PackageFormDTO{PackageName: "   ", DurationInDays: 30, Price: 100})

	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "packageName")
	assert.Zero(t, up.count())
	assert.Empty(t, bus.named("resource.changed"))
}

func TestResourceService_CreatePublishesWithActor(t *testing.T) {
	up, registry, bus := newRegistry(t)
	up.on(http.MethodPost, "/Package", http.StatusCreated, `{"id":9,"packageName":"Gói VIP","durationInDays":90,"price":2000000}`)
	packages, _ := registry.Get("packages")
	ctx := dto.WithSession(context.Background(), &dto.SessionDTO{ID: "sid", UserID: "1", FullName: "Quản lý A", RoleName: dto.RoleManager})

	row, err := packages.Create(ctx, &dto.PackageFormDTO{PackageName: " Gói VIP ", DurationInDays: 90, Price: 2000000})

	require.NoError(t, err)
	assert.Equal(t, "9", row.RowID())
	posts := up.callsTo(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, "Gói VIP", jsonBody(t, posts[0].Body)["packageName"])

	published := bus.named("resource.changed")
	require.Len(t, published, 1)
	event := published[0].(events.ResourceChangedEvent)
	assert.Equal(t, "packages", event.Resource)
	assert.Equal(t, "create", event.Action)
	assert.Equal(t, "9", event.RecordID)
	assert.Equal(t, "Quản lý A", event.ActorName)
	assert.Equal(t, dto.RoleManager, event.ActorRole)
}

func TestResourceService_ServerFailureSurfacesMessage(t *testing.T) {
	up, registry, bus := newRegistry(t)
	up.on(http.MethodPut, "/Package/1", http.StatusBadRequest, `{"title":"Tên gói đã tồn tại"}`)
	packages, _ := registry.Get("packages")

	_, err := packages.Update(context.Background(), "1", &dto.PackageFormDTO{PackageName: "Gói", DurationInDays: 30, Price: 1})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	assert.Empty(t, bus.named("resource.changed"))
}

func TestResourceService_DeleteNeedsConfirmation(t *testing.T) {
	up, registry, bus := newRegistry(t)
	up.on(http.MethodDelete, "/Package/1", http.StatusNoContent, "")
	packages, _ := registry.Get("packages")

	err := packages.Delete(context.Background(), "1", false)
	assert.ErrorIs(t, err, apperrors.ErrNotConfirmed)
	assert.Zero(t, up.count())

	require.NoError(t, packages.Delete(context.Background(), "1", true))
	assert.Len(t, up.callsTo(http.MethodDelete), 1)
	require.Len(t, bus.named("resource.changed"), 1)
}

const oneRepair = `[{"id":5,"equipmentId":12,"equipmentName":"Máy chạy bộ","issue":"Hỏng dây curoa","status":"Pending","reportDate":"2024-03-01"}]`

func TestResourceService_ChangeStatusRejectsForbiddenTransition(t *testing.T) {
	up, registry, _ := newRegistry(t)
	up.on(http.MethodGet, "/EquipmentRepairReport", http.StatusOK, oneRepair)
	repairs, _ := registry.Get("repairs")

	_, err := repairs.ChangeStatus(context.Background(), "5", dto.StatusDTO{Status: dto.RepairCompleted})

	var tErr *dto.TransitionError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
	assert.Empty(t, up.callsTo(http.MethodPut))
}

func TestResourceService_ChangeStatus(t *testing.T) {
	up, registry, bus := newRegistry(t)
	up.on(http.MethodGet, "/EquipmentRepairReport", http.StatusOK, oneRepair)
	up.on(http.MethodPut, "/EquipmentRepairReport/5/status", http.StatusNoContent, "")
	repairs, _ := registry.Get("repairs")

	row, err := repairs.ChangeStatus(context.Background(), "5", dto.StatusDTO{Status: dto.RepairInProgress})

	require.NoError(t, err)
	report := row.(dto.RepairReportDTO)
	assert.Equal(t, dto.RepairInProgress, report.Status)
	assert.Equal(t, "Hỏng dây curoa", report.Description)
	require.Len(t, bus.named("resource.changed"), 1)
	assert.Equal(t, "status", bus.named("resource.changed")[0].(events.ResourceChangedEvent).Action)
}

func TestResourceService_ChangeStatusWithoutWorkflow(t *testing.T) {
	_, registry, _ := newRegistry(t)
	packages, _ := registry.Get("packages")

	_, err := packages.ChangeStatus(context.Background(), "1", dto.StatusDTO{Status: "x"})

	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
}

func TestResourceService_FormValues(t *testing.T) {
	_, registry, _ := newRegistry(t)
	packages, _ := registry.Get("packages")

	values := packages.FormValues(dto.PackageDTO{ID: "3", PackageName: "Gói", DurationInDays: 30, IncludesPersonalTrainer: true, Price: 800000})

	assert.Equal(t, "Gói", values["packageName"])
	assert.Equal(t, "30", values["durationInDays"])
	assert.Equal(t, "true", values["includesPersonalTrainer"])
	assert.Equal(t, "800000", values["price"])
}
