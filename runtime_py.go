package jatti

// pythonRuntime is the standalone runtime embedded at the top of every
// transpiled program. It mirrors the built-in library and the fault
// messages of the interpreter. %d is the recursion ceiling.
const pythonRuntime = `# Minimal Jatti stdlib (embedded)
import sys


class __JattiThrown(Exception):
    def __init__(self, value):
        super().__init__(value)
        self.value = value


class __JattiError(Exception):
    pass


__JATTI_MAX_DEPTH = %d
__jatti_depth = 0
__jatti_callers = []


def __jatti_function(fn):
    argc = fn.__code__.co_argcount

    def call(*args):
        global __jatti_depth
        if len(args) != argc:
            raise __JattiError('Function %%s expects %%d args, got %%d' %% (fn.__name__, argc, len(args)))
        if __jatti_depth >= __JATTI_MAX_DEPTH:
            raise __JattiError('Recursion depth limit (%%d) exceeded' %% __JATTI_MAX_DEPTH)
        __jatti_depth += 1
        __jatti_callers.append(sys._getframe(1))
        try:
            return fn(*args)
        finally:
            __jatti_callers.pop()
            __jatti_depth -= 1
    return call


def __jatti_caller_value(name):
    frame = __jatti_callers[-1]
    if name in frame.f_locals:
        return frame.f_locals[name]
    if name in frame.f_globals:
        return frame.f_globals[name]
    raise NameError(name)


def __jatti_expression_error(message):
    raise __JattiError(message)


def __jatti_exception_value(e):
    if isinstance(e, __JattiThrown):
        return e.value
    if isinstance(e, __JattiError):
        return e.args[0]
    if isinstance(e, ZeroDivisionError):
        return 'Zero naal divide nahi kar sakde.'
    if isinstance(e, NameError):
        return 'Variable define nahi hoya: ' + str(getattr(e, 'name', None) or e)
    if isinstance(e, TypeError):
        return 'Galat type operation hoyi hai.'
    if isinstance(e, IndexError):
        return 'Index range to bahar hai.'
    if isinstance(e, KeyError):
        return 'Key nahi mili: ' + str(e.args[0])
    if isinstance(e, EOFError):
        return 'EOF when reading a line'
    return str(e)


def __jatti_order(left, op, right):
    if not isinstance(left, (int, float)) or not isinstance(right, (int, float)):
        raise __JattiError('Comparison sirf numbers layi allowed hai.')
    if op == '<':
        return left < right
    if op == '>':
        return left > right
    if op == '<=':
        return left <= right
    return left >= right


def __jatti_iter_list(value):
    if not isinstance(value, list):
        raise __JattiError('har_ek x sirf list layi use hunda hai.')
    return value


def __jatti_iter_map(value):
    if not isinstance(value, dict):
        raise __JattiError('har_ek key, value sirf map layi use hunda hai.')
    return list(value.items())


def __jatti_append(target, value):
    if not isinstance(target, list):
        raise __JattiError('pa_ander sirf list layi use hunda hai.')
    target.append(value)


def __jatti_copy(value):
    if not isinstance(value, (list, dict)):
        raise __JattiError('copy_kar sirf list ya map layi use hunda hai.')
    return value.copy()


def __jatti_clear(value):
    if not isinstance(value, (list, dict)):
        raise __JattiError('saaf_kar sirf list ya map layi use hunda hai.')
    value.clear()


def __jatti_print(*values):
    print(*values, flush=True)


def __jatti_input(message):
    value = input(message + ': ')
    try:
        return int(value) if '.' not in value else float(value)
    except ValueError:
        return value


def __jatti_list_arg(name, lst):
    if not isinstance(lst, list):
        raise __JattiError(name + ': only works with lists')
    return lst


def __jatti_sum(name, lst):
    total = 0
    for item in lst:
        if not isinstance(item, (int, float)):
            raise __JattiError(name + ': list contains non-numeric values')
        total = total + item
    return total


def kinna_lamba(value):
    if not isinstance(value, (list, str, dict)):
        raise __JattiError('kinna_lamba: only works with lists')
    return len(value)


def sort_hoja_oye(lst):
    return sorted(__jatti_list_arg('sort_hoja_oye', lst))


def ulta_hoja_oye(lst):
    return __jatti_list_arg('ulta_hoja_oye', lst)[::-1]


def jod_oye(lst):
    return __jatti_sum('jod_oye', __jatti_list_arg('jod_oye', lst))


def average_kad(lst):
    __jatti_list_arg('average_kad', lst)
    if not lst:
        raise __JattiError('average_kad: cannot average empty list')
    return __jatti_sum('average_kad', lst) / len(lst)


def sabton_vaddha(lst):
    __jatti_list_arg('sabton_vaddha', lst)
    if not lst:
        raise __JattiError('sabton_vaddha: cannot find max of empty list')
    best = lst[0]
    for item in lst[1:]:
        if best < item:
            best = item
    return best


def sabton_nikka(lst):
    __jatti_list_arg('sabton_nikka', lst)
    if not lst:
        raise __JattiError('sabton_nikka: cannot find min of empty list')
    best = lst[0]
    for item in lst[1:]:
        if item < best:
            best = item
    return best


def dona_nu_jod_oye(a, b):
    return str(a) + str(b)


def range_banao(*args):
    if len(args) < 1 or len(args) > 3:
        raise __JattiError('range_banao: takes 1-3 arguments')
    try:
        bounds = [int(a) for a in args]
    except (TypeError, ValueError):
        raise __JattiError('range_banao: arguments integer hone chahide')
    if len(bounds) == 3 and bounds[2] == 0:
        raise __JattiError('range_banao: step zero nahi ho sakda')
    return list(range(*bounds))


def __jatti_str_args(args, n):
    if len(args) != n or not all(isinstance(a, str) for a in args):
        raise TypeError()
    return args


def __jatti_no_args(args):
    if args:
        raise TypeError()


def __jatti_s_split(s, *a):
    if len(a) > 1:
        raise TypeError()
    if not a or a[0] is None:
        return s.split()
    if not isinstance(a[0], str):
        raise TypeError()
    if a[0] == '':
        raise __JattiError('tut_ja_oye: separator khaali nahi ho sakda')
    return s.split(a[0])


def __jatti_s_join(s, *a):
    if len(a) != 1 or not isinstance(a[0], list):
        raise TypeError()
    return s.join(str(x) for x in a[0])


def __jatti_s_replace(s, *a):
    old, new = __jatti_str_args(a, 2)
    return s.replace(old, new)


def __jatti_s_has(s, *a):
    return __jatti_str_args(a, 1)[0] in s


def __jatti_s_starts(s, *a):
    return s.startswith(__jatti_str_args(a, 1)[0])


def __jatti_s_ends(s, *a):
    return s.endswith(__jatti_str_args(a, 1)[0])


def __jatti_s_upper(s, *a):
    __jatti_no_args(a)
    return s.upper()


def __jatti_s_lower(s, *a):
    __jatti_no_args(a)
    return s.lower()


def __jatti_s_trim(s, *a):
    __jatti_no_args(a)
    return s.strip()


def __jatti_l_contains(lst, *a):
    if len(a) != 1:
        raise TypeError()
    return a[0] in lst


def __jatti_l_index_of(lst, *a):
    if len(a) != 1:
        raise TypeError()
    for i, item in enumerate(lst):
        if item == a[0]:
            return i
    return -1


def __jatti_l_reverse(lst, *a):
    __jatti_no_args(a)
    return lst[::-1]


def __jatti_l_sort(lst, *a):
    __jatti_no_args(a)
    return sorted(lst)


def __jatti_d_keys(d, *a):
    __jatti_no_args(a)
    return list(d.keys())


def __jatti_d_values(d, *a):
    __jatti_no_args(a)
    return list(d.values())


def __jatti_d_has(d, *a):
    if len(a) != 1:
        raise TypeError()
    return a[0] in d


__jatti_methods = {
    str: {
        'upper_case_oye': __jatti_s_upper,
        'lower_case_oye': __jatti_s_lower,
        'trim_hoja_oye': __jatti_s_trim,
        'tut_ja_oye': __jatti_s_split,
        'jud_ja_oye': __jatti_s_join,
        'badal_ja_oye': __jatti_s_replace,
        'haiga_hai': __jatti_s_has,
        'shuru_hunda_hai': __jatti_s_starts,
        'khatam_hunda_hai': __jatti_s_ends,
    },
    list: {
        'contains': __jatti_l_contains,
        'index_of': __jatti_l_index_of,
        'reverse_it': __jatti_l_reverse,
        'sort_it': __jatti_l_sort,
    },
    dict: {
        'get_keys': __jatti_d_keys,
        'get_values': __jatti_d_values,
        'has_key': __jatti_d_has,
    },
}


def __jatti_method(obj, name, *args):
    table = __jatti_methods.get(type(obj), {})
    if name not in table:
        raise __JattiError('Method %%s %%s layi nahi hai.' %% (name, type(obj).__name__))
    return table[name](obj, *args)


def __jatti_hash_sha3_256(s):
    import hashlib
    if not isinstance(s, str):
        raise TypeError()
    return hashlib.sha3_256(s.encode('utf-8')).hexdigest()


def __jatti_hash_blake2b_256(s):
    import hashlib
    if not isinstance(s, str):
        raise TypeError()
    return hashlib.blake2b(s.encode('utf-8'), digest_size=32).hexdigest()


__jatti_iso_date = None


def __jatti_date_parse(s):
    global __jatti_iso_date
    import re
    from datetime import datetime
    if not isinstance(s, str):
        raise TypeError()
    if __jatti_iso_date is None:
        __jatti_iso_date = re.compile(r'([0-9]{4})-([0-9]{2})-([0-9]{2})(?:[T ]([0-9]{2}):([0-9]{2})(?::([0-9]{2})(?:\.[0-9]+)?)?)?')
    m = __jatti_iso_date.fullmatch(s)
    if m is None:
        raise ValueError(s)
    return datetime(*(int(g or 0) for g in m.groups()))


def __jatti_date_parse_date(s):
    try:
        return __jatti_date_parse(s).isoformat(' ')
    except ValueError:
        raise __JattiError('parse_date: date samajh nahi aayi')


def __jatti_date_year_of(s):
    try:
        return __jatti_date_parse(s).year
    except ValueError:
        raise __JattiError('year_of: date samajh nahi aayi')
`
