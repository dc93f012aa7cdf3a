package classfile

// writeAnnotationsAttribute writes either RuntimeVisibleAnnotations or
// RuntimeInvisibleAnnotations (or both, if anns mixes retentions), per
// JVMS §4.7.16/§4.7.17. Source-retained annotations never reach this
// package: package classemitter drops them during its retention filter
// (spec §4.4).
func writeAnnotationsAttribute(w *BinWriter, pool *ConstantPool, anns []AnnotationSpec) {
	var visible, invisible []AnnotationSpec
	for _, a := range anns {
		if a.Runtime {
			visible = append(visible, a)
		} else {
			invisible = append(invisible, a)
		}
	}
	if len(visible) > 0 {
		writeOneAnnotationsAttribute(w, pool, "RuntimeVisibleAnnotations", visible)
	}
	if len(invisible) > 0 {
		writeOneAnnotationsAttribute(w, pool, "RuntimeInvisibleAnnotations", invisible)
	}
}

func writeOneAnnotationsAttribute(w *BinWriter, pool *ConstantPool, attrName string, anns []AnnotationSpec) {
	body := NewBinWriter()
	body.WriteU16(uint16(len(anns)))
	for _, a := range anns {
		writeAnnotation(body, pool, a)
	}
	w.WriteU16(pool.UTF8(attrName))
	w.WriteU32(uint32(body.Len()))
	w.WriteBytes(body.Bytes())
}

func writeAnnotation(w *BinWriter, pool *ConstantPool, a AnnotationSpec) {
	w.WriteU16(pool.UTF8(a.TypeDescriptor))
	w.WriteU16(uint16(len(a.Elements)))
	for _, e := range a.Elements {
		w.WriteU16(pool.UTF8(e.Name))
		writeElementValue(w, pool, e.Value)
	}
}

// Element value tags (JVMS §4.7.16.1 Table 4.7.16.1-A).
const (
	evByte          = 'B'
	evChar          = 'C'
	evDouble        = 'D'
	evFloat         = 'F'
	evInt           = 'I'
	evLong          = 'J'
	evShort         = 'S'
	evBoolean       = 'Z'
	evString        = 's'
	evEnum          = 'e'
	evClass         = 'c'
	evAnnotation    = '@'
	evArray         = '['
)

func writeElementValue(w *BinWriter, pool *ConstantPool, v any) {
	switch x := v.(type) {
	case bool:
		w.WriteU8(evBoolean)
		n := int32(0)
		if x {
			n = 1
		}
		w.WriteU16(pool.Integer(n))
	case int32:
		w.WriteU8(evInt)
		w.WriteU16(pool.Integer(x))
	case int64:
		w.WriteU8(evLong)
		w.WriteU16(pool.Long(x))
	case float32:
		w.WriteU8(evFloat)
		w.WriteU16(pool.Float(x))
	case float64:
		w.WriteU8(evDouble)
		w.WriteU16(pool.Double(x))
	case string:
		w.WriteU8(evString)
		w.WriteU16(pool.UTF8(x))
	case AnnotationSpec:
		w.WriteU8(evAnnotation)
		writeAnnotation(w, pool, x)
	case []AnnotationElement:
		w.WriteU8(evArray)
		w.WriteU16(uint16(len(x)))
		for _, el := range x {
			writeElementValue(w, pool, el.Value)
		}
	default:
		panic("classfile: unsupported annotation element value")
	}
}

func writeParameterAnnotationsAttribute(w *BinWriter, pool *ConstantPool, byParam map[int][]AnnotationSpec) {
	maxParam := -1
	for i := range byParam {
		if i > maxParam {
			maxParam = i
		}
	}
	writeOneParameterAnnotationsAttribute(w, pool, "RuntimeVisibleParameterAnnotations", byParam, maxParam, true)
	writeOneParameterAnnotationsAttribute(w, pool, "RuntimeInvisibleParameterAnnotations", byParam, maxParam, false)
}

func writeOneParameterAnnotationsAttribute(w *BinWriter, pool *ConstantPool, attrName string, byParam map[int][]AnnotationSpec, maxParam int, runtime bool) {
	found := false
	body := NewBinWriter()
	body.WriteU8(byte(maxParam + 1))
	for i := 0; i <= maxParam; i++ {
		var matching []AnnotationSpec
		for _, a := range byParam[i] {
			if a.Runtime == runtime {
				matching = append(matching, a)
				found = true
			}
		}
		body.WriteU16(uint16(len(matching)))
		for _, a := range matching {
			writeAnnotation(body, pool, a)
		}
	}
	if !found {
		return
	}
	w.WriteU16(pool.UTF8(attrName))
	w.WriteU32(uint32(body.Len()))
	w.WriteBytes(body.Bytes())
}
