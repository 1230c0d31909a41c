package entity

// CashRegisterClosing is the end-of-shift report of one cash register.
type CashRegisterClosing struct {
	NombreSistema Text      `json:"nombre_sistema"`
	Direccion     Text      `json:"direccion"`
	Usuarios      *Employee `json:"Usuarios"`
	FechaCierre   Text      `json:"fecha_cierre"`
	EstadoCaja    Text      `json:"estado_caja"`
	Observaciones Text      `json:"observaciones"`

	MontoInicial  Amount `json:"monto_inicial"`
	EfectivoReal  Amount `json:"efectivoReal"`
	TotalEfectivo Amount `json:"totalEfectivo"`
	TotalCompras  Amount `json:"totalCompras"`
	EfectivoTotal Amount `json:"efectivoTotal"`

	TotalTarjetaSERFINSA      Amount `json:"totalTarjetaSERFINSA"`
	ContadorTarjetaSERFINSA   Text   `json:"contadorTarjetaSERFINSA"`
	TotalTarjetaBAC           Amount `json:"totalTarjetaBAC"`
	ContadorTarjetaBAC        Text   `json:"contadorTarjetaBAC"`
	TotalTarjetaAGRICOLA      Amount `json:"totalTarjetaAGRICOLA"`
	ContadorTarjetaAGRICOLA   Text   `json:"contadorTarjetaAGRICOLA"`
	TotalTarjetaCREDOMATIC    Amount `json:"totalTarjetaCREDOMATIC"`
	ContadorTarjetaCREDOMATIC Text   `json:"contadorTarjetaCREDOMATIC"`
	TotalTarjetaPROMERICA     Amount `json:"totalTarjetaPROMERICA"`
	ContadorTarjetaPROMERICA  Text   `json:"contadorTarjetaPROMERICA"`
	TotalTarjetaCUSCA         Amount `json:"totalTarjetaCUSCA"`
	ContadorTarjetaCUSCA      Text   `json:"contadorTarjetaCUSCA"`
	TotalTarjetaDAVIVIENDA    Amount `json:"totalTarjetaDAVIVIENDA"`
	ContadorTarjetaDAVIVIENDA Text   `json:"contadorTarjetaDAVIVIENDA"`

	PedidosYa           Amount `json:"pedidosYa"`
	ContadorPedidosYa   Text   `json:"contadorPedidosYa"`
	UberEats            Amount `json:"uberEats"`
	ContadorUberEats    Text   `json:"contadoruberEats"`
	TotalCortesia       Amount `json:"totalCortecia"`
	ContadorCortesia    Text   `json:"contadorCortecia"`
	TotalCertificado    Amount `json:"totalCertificado"`
	ContadorCertificado Text   `json:"contadorCertificado"`
	TotalCredito        Amount `json:"totalCredito"`
	ContadorCredito     Text   `json:"contadorCredito"`
	Llevar              Amount `json:"llevar"`
	ContadorLlevar      Text   `json:"contadorLlevar"`

	VentaTotal      Amount `json:"ventaTotal"`
	VentaSinPropina Amount `json:"ventaSinPropina"`
	VentaSinIva     Amount `json:"ventaSinIva"`
	OrdenesActivas  Amount `json:"ordenesActivas"`

	Orders []ClosingOrder `json:"OrdenesDeRestaurante"`
}

// ClosingOrder is one order listed in a detailed cash register closing.
type ClosingOrder struct {
	NumeroOrden   Text      `json:"numero_orden"`
	FechaCreacion Timestamp `json:"fecha_creacion"`
	Total         Amount    `json:"total"`
	Payments      []Payment `json:"OrdenesHistorialPago"`
}

// Normalize fills defaults for missing fields.
func (c *CashRegisterClosing) Normalize() {
	if c.Usuarios == nil {
		c.Usuarios = &Employee{}
	}
	for _, n := range []*Text{
		&c.ContadorTarjetaSERFINSA,
		&c.ContadorTarjetaBAC,
		&c.ContadorTarjetaAGRICOLA,
		&c.ContadorTarjetaCREDOMATIC,
		&c.ContadorPedidosYa,
		&c.ContadorUberEats,
		&c.ContadorCortesia,
		&c.ContadorCertificado,
		&c.ContadorCredito,
		&c.ContadorLlevar,
	} {
		if n.Or("") == "" {
			*n = "0"
		}
	}
}

// CashIn returns the counted cash when there is one, the expected cash otherwise.
func (c *CashRegisterClosing) CashIn() Amount {
	if c.EfectivoReal.IsPositive() {
		return c.EfectivoReal
	}
	return c.TotalEfectivo
}

// DailyClosing aggregates every register for one business day.
type DailyClosing struct {
	Fecha    Timestamp `json:"fecha"`
	Usuarios *Employee `json:"Usuarios"`
	IDCierre Amount    `json:"id_cierre"`

	VentaBruta      Amount `json:"ventaBruta"`
	VentaSinPropina Amount `json:"ventaSinPropina"`
	VentaSinIva     Amount `json:"ventaSinIva"`

	Efectivo            Amount `json:"efectivo"`
	Credomatic          Amount `json:"redomati"`
	Serfinsa            Amount `json:"serfinsa"`
	Promerica           Amount `json:"promerica"`
	TotalTarjetaCredito Amount `json:"totalTarjetaCredito"`

	ParaLlevar Amount `json:"paraLlevar"`
	UberEats   Amount `json:"uberEats"`
	PedidoYa   Amount `json:"pedidoYa"`

	Propina           Amount `json:"propina"`
	Cortesia          Amount `json:"cortesia"`
	CertificadoRegalo Amount `json:"certificadoRegalo"`
	Credito           Amount `json:"foundever"`

	Compras         Amount `json:"compras"`
	EntregaEfectivo Amount `json:"entregaEfectivo"`
	Remesa          Amount `json:"remesaDonVitto"`
}

// Normalize is a no-op: every field already reads as zero when absent and
// the employee block is printed only when present.
func (d *DailyClosing) Normalize() {}

// Closed reports whether the day has a closing record.
func (d *DailyClosing) Closed() bool {
	return d.IDCierre.IsPositive()
}
