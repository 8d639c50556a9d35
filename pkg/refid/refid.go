// Package refid genera tokens de correlación para ajustes de inventario
// cuando el caller no aporta uno propio.
package refid

import (
	"fmt"
	"math/rand"
	"time"
)

// New genera un token con formato ADJ-<epochms>-<rand4digits>.
// Es una etiqueta de correlación, no un identificador único: dos llamadas en
// el mismo milisegundo pueden colisionar y el motor no lo trata como error.
func New() string {
	return fmt.Sprintf("ADJ-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
