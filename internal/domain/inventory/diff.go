package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// MaxQuantity mayor cantidad representable en las columnas INTEGER de stocks y order_items.
const MaxQuantity = math.MaxInt32

// ItemCount cantidad de un producto dentro de un pedido.
type ItemCount struct {
	ProductID string
	Count     int
}

// ItemDelta cambio en la cantidad de un producto dentro del pedido (nuevo - anterior).
// Positivo: el pedido lleva más unidades; negativo: lleva menos.
type ItemDelta struct {
	ProductID string
	Delta     int
}

// StockDelta cambio en la existencia de un producto en la bodega.
// Positivo: entra mercancía (devolución); negativo: sale mercancía (retiro).
type StockDelta struct {
	ProductID string
	Delta     int
}

// Diff calcula, por producto, la diferencia entre el contenido anterior y el nuevo de un pedido.
//   - presente solo en old:     delta = -old (eliminación total)
//   - presente solo en updated: delta = +updated
//   - presente en ambos:        delta = updated - old
//
// Los deltas en cero se omiten. Las cantidades repetidas de un mismo producto se suman
// y las cantidades <= 0 en updated equivalen a ausencia. El resultado se ordena por ProductID.
func Diff(old, updated []ItemCount) []ItemDelta {
	oldCounts := sum(old)
	newCounts := sum(updated)

	deltas := make(map[string]int, len(oldCounts)+len(newCounts))
	for id, count := range oldCounts {
		deltas[id] -= count
	}
	for id, count := range newCounts {
		deltas[id] += count
	}

	out := make([]ItemDelta, 0, len(deltas))
	for id, d := range deltas {
		if d == 0 {
			continue
		}
		out = append(out, ItemDelta{ProductID: id, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Merge suma las cantidades por producto. Las líneas con cantidad <= 0 equivalen a ausencia.
// Devuelve domain.ErrInvalidInput si alguna suma supera MaxQuantity.
func Merge(items []ItemCount) (map[string]int, error) {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		if it.Count <= 0 {
			continue
		}
		if it.Count > MaxQuantity-counts[it.ProductID] {
			return nil, fmt.Errorf("%w: cantidad del producto %s supera %d", domain.ErrInvalidInput, it.ProductID, MaxQuantity)
		}
		counts[it.ProductID] += it.Count
	}
	return counts, nil
}

// sum igual que Merge pero sin límite; solo para contenidos ya validados.
func sum(items []ItemCount) map[string]int {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		if it.Count > 0 {
			counts[it.ProductID] += it.Count
		}
	}
	return counts
}

// LedgerDelta convierte el cambio de una línea de pedido en el movimiento de bodega equivalente:
// si el pedido lleva más unidades, la bodega tiene menos. Es el único punto donde se invierte el signo.
func LedgerDelta(d ItemDelta) StockDelta {
	return StockDelta{ProductID: d.ProductID, Delta: -d.Delta}
}

// LedgerDeltas aplica LedgerDelta a cada elemento.
func LedgerDeltas(ds []ItemDelta) []StockDelta {
	out := make([]StockDelta, 0, len(ds))
	for _, d := range ds {
		out = append(out, LedgerDelta(d))
	}
	return out
}

// Withdrawal movimientos para retirar de la bodega todo el contenido del pedido.
func Withdrawal(items []ItemCount) []StockDelta {
	return LedgerDeltas(Diff(nil, items))
}

// Return movimientos para devolver a la bodega todo el contenido del pedido.
func Return(items []ItemCount) []StockDelta {
	return LedgerDeltas(Diff(items, nil))
}
