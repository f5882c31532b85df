package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	appinventory "github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/metrics"
)

// Nombres de transición usados en logs y métricas.
const (
	TransitionCreate   = "create"
	TransitionUpdate   = "update_items"
	TransitionComplete = "complete"
	TransitionCancel   = "cancel"
	TransitionRestore  = "restore"
)

// LifecycleUseCase orquesta el ciclo de vida de los pedidos manteniendo consistentes
// existencias, líneas de pedido e historial. Cada operación es una sola transacción.
type LifecycleUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewLifecycleUseCase construye el caso de uso. Los repositorios sueltos (pool) se usan
// solo para verificaciones de existencia previas a la transacción.
func NewLifecycleUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log.Component("orders"),
		now:           time.Now,
	}
}

// ItemInput línea solicitada. Count 0 en una actualización elimina la línea.
type ItemInput struct {
	ProductID string
	Count     int
}

// CreateOrderInput datos para crear un pedido.
type CreateOrderInput struct {
	Customer    string
	WarehouseID string
	Items       []ItemInput
}

// UpdateOrderInput nuevo contenido del pedido. Customer nil conserva el actual.
type UpdateOrderInput struct {
	Customer *string
	Items    []ItemInput
}

// Create crea el pedido ACTIVE con sus líneas y retira de la bodega todas las cantidades.
// Si algún producto no alcanza, no se crea nada.
func (uc *LifecycleUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	customer := normalizeCustomer(in.Customer)
	if customer == "" || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Count < 1 {
			return nil, domain.ErrInvalidInput
		}
	}
	counts, err := inventory.Merge(toItemCounts(in.Items))
	if err != nil {
		return nil, err
	}

	if err := uc.ensureWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	if err := uc.ensureProducts(ctx, counts); err != nil {
		return nil, err
	}

	now := uc.now()
	o := &entity.Order{
		ID:          uuid.New().String(),
		Customer:    customer,
		CreatedAt:   now,
		WarehouseID: in.WarehouseID,
		Status:      entity.OrderStatusActive,
	}
	for _, productID := range sortedKeys(counts) {
		o.Items = append(o.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: productID,
			Count:     counts[productID],
		})
	}

	var created, updated int
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
		stockRepo repository.StockRepository,
		historyRepo repository.StockHistoryRepository,
	) error {
		if err := orderRepo.Create(ctx, o); err != nil {
			return err
		}
		for i := range o.Items {
			if err := itemRepo.Create(ctx, &o.Items[i]); err != nil {
				return err
			}
		}
		ledger := appinventory.NewLedger(stockRepo, historyRepo).WithClock(uc.now)
		if _, err := ledger.ApplyDeltaBatch(ctx, o.WarehouseID, inventory.Withdrawal(itemCounts(o.Items))); err != nil {
			return err
		}
		created, updated = ledger.Mutations()
		return nil
	})
	if err != nil {
		uc.observeFailure(TransitionCreate, "", err)
		return nil, err
	}

	uc.observeSuccess(TransitionCreate, o, created, updated)
	return o, nil
}

// UpdateItems reemplaza el contenido del pedido. Mientras el pedido retiene stock (ACTIVE o
// COMPLETED) aplica a la bodega la diferencia entre el contenido anterior y el nuevo; si algún
// retiro neto no alcanza, ni las existencias ni las líneas cambian. Un pedido CANCELLED ya
// devolvió su mercancía, así que solo se reescriben sus líneas.
func (uc *LifecycleUseCase) UpdateItems(ctx context.Context, id string, in UpdateOrderInput) (*entity.Order, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	var customer string
	if in.Customer != nil {
		customer = normalizeCustomer(*in.Customer)
		if customer == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Count < 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	counts, err := inventory.Merge(toItemCounts(in.Items))
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		// un pedido sin líneas no tiene sentido; para vaciarlo se cancela
		return nil, domain.ErrInvalidInput
	}

	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.ensureProducts(ctx, counts); err != nil {
		return nil, err
	}

	var (
		result           *entity.Order
		created, updated int
	)
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
		stockRepo repository.StockRepository,
		historyRepo repository.StockHistoryRepository,
	) error {
		o, err := lockOrder(ctx, orderRepo, id)
		if err != nil {
			return err
		}

		diff := inventory.Diff(itemCounts(o.Items), countsToItems(counts))
		if o.Status.HoldsStock() {
			ledger := appinventory.NewLedger(stockRepo, historyRepo).WithClock(uc.now)
			if _, err := ledger.ApplyDeltaBatch(ctx, o.WarehouseID, inventory.LedgerDeltas(diff)); err != nil {
				return err
			}
			created, updated = ledger.Mutations()
		}

		items, err := syncItems(ctx, itemRepo, o, counts)
		if err != nil {
			return err
		}
		o.Items = items

		if in.Customer != nil && customer != o.Customer {
			o.Customer = customer
			if err := orderRepo.Update(ctx, o); err != nil {
				return err
			}
		}
		result = o
		return nil
	})
	if err != nil {
		uc.observeFailure(TransitionUpdate, id, err)
		return nil, err
	}

	uc.observeSuccess(TransitionUpdate, result, created, updated)
	return result, nil
}

// Complete pasa el pedido a COMPLETED. Desde ACTIVE no mueve existencias (ya se retiraron al
// crear); desde CANCELLED vuelve a retirar todo el contenido. Idempotente si ya está completado.
func (uc *LifecycleUseCase) Complete(ctx context.Context, id string) (*entity.Order, error) {
	return uc.transition(ctx, TransitionComplete, id, entity.OrderStatusCompleted)
}

// Cancel pasa el pedido a CANCELLED devolviendo a la bodega todo su contenido.
// Devolver nunca falla por falta de existencias. Idempotente si ya está cancelado.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	return uc.transition(ctx, TransitionCancel, id, entity.OrderStatusCancelled)
}

// Restore reactiva un pedido. Desde CANCELLED vuelve a retirar el contenido y falla, dejando el
// pedido cancelado, si ya no alcanza. Desde COMPLETED solo cambia el estado. Idempotente si ya está activo.
func (uc *LifecycleUseCase) Restore(ctx context.Context, id string) (*entity.Order, error) {
	return uc.transition(ctx, TransitionRestore, id, entity.OrderStatusActive)
}

func (uc *LifecycleUseCase) transition(ctx context.Context, name, id string, target entity.OrderStatus) (*entity.Order, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}

	var (
		result           *entity.Order
		noop             bool
		created, updated int
	)
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.OrderItemRepository,
		stockRepo repository.StockRepository,
		historyRepo repository.StockHistoryRepository,
	) error {
		o, err := lockOrder(ctx, orderRepo, id)
		if err != nil {
			return err
		}
		if !o.Status.Valid() {
			return fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidState, o.Status)
		}
		result = o
		if o.Status == target {
			noop = true
			return nil
		}

		deltas := stockEffect(o.Status, target, itemCounts(o.Items))
		if len(deltas) > 0 {
			ledger := appinventory.NewLedger(stockRepo, historyRepo).WithClock(uc.now)
			if _, err := ledger.ApplyDeltaBatch(ctx, o.WarehouseID, deltas); err != nil {
				return err
			}
			created, updated = ledger.Mutations()
		}

		o.Status = target
		if target == entity.OrderStatusCompleted {
			completedAt := uc.now()
			o.CompletedAt = &completedAt
		} else {
			o.CompletedAt = nil
		}
		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		uc.observeFailure(name, id, err)
		return nil, err
	}

	if noop {
		metrics.ObserveTransition(name, metrics.ResultNoop)
		uc.log.Debug().Str("order_id", id).Str("status", string(result.Status)).Msg("transición sin cambios")
		return result, nil
	}
	uc.observeSuccess(name, result, created, updated)
	return result, nil
}

// stockEffect movimientos de bodega requeridos al pasar de un estado a otro.
// Solo cruzar la frontera "retiene / no retiene stock" mueve mercancía.
func stockEffect(from, to entity.OrderStatus, items []inventory.ItemCount) []inventory.StockDelta {
	switch {
	case from.HoldsStock() && !to.HoldsStock():
		return inventory.Return(items)
	case !from.HoldsStock() && to.HoldsStock():
		return inventory.Withdrawal(items)
	default:
		return nil
	}
}

// Get devuelve el pedido con sus líneas.
func (uc *LifecycleUseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.load(ctx, id)
}

// List devuelve pedidos (más recientes primero) filtrados por cliente, estado y bodega.
func (uc *LifecycleUseCase) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}
	filter.Customer = normalizeCustomer(filter.Customer)
	return uc.orderRepo.List(ctx, filter)
}

func (uc *LifecycleUseCase) load(ctx context.Context, id string) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}
	return o, nil
}

func (uc *LifecycleUseCase) ensureWarehouse(ctx context.Context, id string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return &domain.NotFoundError{Entity: "warehouse", ID: id}
	}
	return nil
}

func (uc *LifecycleUseCase) ensureProducts(ctx context.Context, counts map[string]int) error {
	missing, err := uc.productRepo.MissingIDs(ctx, sortedKeys(counts))
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &domain.NotFoundError{Entity: "product", ID: strings.Join(missing, ",")}
	}
	return nil
}

func (uc *LifecycleUseCase) observeSuccess(name string, o *entity.Order, created, updated int) {
	metrics.ObserveTransition(name, metrics.ResultOK)
	metrics.ObserveStockMutations(created, updated)
	uc.log.Info().
		Str("transition", name).
		Str("order_id", o.ID).
		Str("status", string(o.Status)).
		Int("items", len(o.Items)).
		Int("stock_created", created).
		Int("stock_updated", updated).
		Msg("pedido actualizado")
}

func (uc *LifecycleUseCase) observeFailure(name, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		metrics.ObserveTransition(name, metrics.ResultInsufficientStock)
		uc.log.Warn().Err(err).Str("transition", name).Str("order_id", id).Msg("stock insuficiente, operación revertida")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidState):
		metrics.ObserveTransition(name, metrics.ResultError)
		uc.log.Warn().Err(err).Str("transition", name).Str("order_id", id).Msg("operación rechazada")
	default:
		metrics.ObserveTransition(name, metrics.ResultError)
		uc.log.Error().Err(err).Str("transition", name).Str("order_id", id).Msg("operación revertida")
	}
}

// lockOrder relee el pedido con bloqueo de fila dentro de la transacción.
func lockOrder(ctx context.Context, orderRepo repository.OrderRepository, id string) (*entity.Order, error) {
	o, err := orderRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		// borrado entre la verificación y el bloqueo
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}
	return o, nil
}

// syncItems lleva las líneas persistidas al contenido counts: crea, actualiza o elimina.
func syncItems(ctx context.Context, itemRepo repository.OrderItemRepository, o *entity.Order, counts map[string]int) ([]entity.OrderItem, error) {
	existing := make(map[string]entity.OrderItem, len(o.Items))
	for _, it := range o.Items {
		existing[it.ProductID] = it
	}

	items := make([]entity.OrderItem, 0, len(counts))
	for _, productID := range sortedKeys(counts) {
		count := counts[productID]
		if it, ok := existing[productID]; ok {
			if it.Count != count {
				if err := itemRepo.UpdateCount(ctx, it.ID, count); err != nil {
					return nil, err
				}
				it.Count = count
			}
			items = append(items, it)
			continue
		}
		it := entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: productID,
			Count:     count,
		}
		if err := itemRepo.Create(ctx, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	for _, it := range o.Items {
		if _, keep := counts[it.ProductID]; keep {
			continue
		}
		if err := itemRepo.Delete(ctx, it.ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// normalizeCustomer recorta espacios y normaliza a NFC para que búsquedas y comparaciones sean estables.
func normalizeCustomer(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func toItemCounts(items []ItemInput) []inventory.ItemCount {
	out := make([]inventory.ItemCount, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.ItemCount{ProductID: it.ProductID, Count: it.Count})
	}
	return out
}

func itemCounts(items []entity.OrderItem) []inventory.ItemCount {
	out := make([]inventory.ItemCount, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.ItemCount{ProductID: it.ProductID, Count: it.Count})
	}
	return out
}

func countsToItems(counts map[string]int) []inventory.ItemCount {
	out := make([]inventory.ItemCount, 0, len(counts))
	for _, id := range sortedKeys(counts) {
		out = append(out, inventory.ItemCount{ProductID: id, Count: counts[id]})
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
